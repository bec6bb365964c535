package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/siftlab/assessrec/internal/domain"
)

// Required columns of the corpus store. adaptive_support and remote_support
// hold "Yes"/"No".
var requiredColumns = []string{
	"id", "name", "url", "test_type", "duration_mins",
	"skills", "description", "adaptive_support", "remote_support",
}

// LoadCSV reads the corpus store into assessment records. The file must have
// a header row with the required columns; extra columns are ignored.
func LoadCSV(path string) ([]domain.Assessment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus %s: %w", path, err)
	}
	defer f.Close()

	records, err := readAll(csv.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("corpus %s: %w", path, domain.ErrCorpusEmpty)
	}
	return records, nil
}

func readAll(r *csv.Reader) ([]domain.Assessment, error) {
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var records []domain.Assessment
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := parseRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string, cols map[string]int) (domain.Assessment, error) {
	field := func(name string) string { return strings.TrimSpace(row[cols[name]]) }

	id, err := strconv.Atoi(field("id"))
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("invalid id %q", field("id"))
	}
	duration, err := strconv.Atoi(field("duration_mins"))
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("invalid duration_mins %q", field("duration_mins"))
	}

	return domain.NewAssessment(
		id,
		field("name"),
		field("url"),
		domain.TestType(strings.ToUpper(field("test_type"))),
		duration,
		splitSkills(field("skills")),
		field("description"),
		parseYesNo(field("adaptive_support")),
		parseYesNo(field("remote_support")),
	)
}

func splitSkills(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			skills = append(skills, p)
		}
	}
	return skills
}

func parseYesNo(s string) bool {
	return strings.EqualFold(s, "yes")
}
