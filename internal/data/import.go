package data

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const (
	minParts = 2
	maxParts = 4
)

type (
	// Line is a dictionary entry in the form word:short definition[:part of speech[:category]].
	Line struct {
		Word            string
		ShortDefinition string
		PartOfSpeech    string
		Category        string
	}

	ParsingError struct {
		InvalidLines []int
	}
)

func (e *ParsingError) Error() string {
	return fmt.Sprintf("parsing error: invalidLines=%v", e.InvalidLines)
}

// Parse sends every valid line of in to out and closes both. Blank lines and lines starting with # are skipped.
func Parse(ctx context.Context, in io.ReadCloser, out chan<- Line) error {
	defer close(out)
	defer in.Close()

	scanner := bufio.NewScanner(in)
	invalidLines := make([]int, 0, 10) //nolint:mnd // 10 is the expected capacity
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}

		line, ok := parseLine(raw)
		if !ok {
			invalidLines = append(invalidLines, lineNum)
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case out <- line: // continue
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan file: %w", err)
	}
	if len(invalidLines) > 0 {
		return &ParsingError{InvalidLines: invalidLines}
	}

	return nil
}

func parseLine(raw string) (Line, bool) {
	parts := strings.Split(raw, ":")
	if len(parts) < minParts || len(parts) > maxParts {
		return Line{}, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if parts[0] == "" || parts[1] == "" {
		return Line{}, false
	}

	line := Line{Word: parts[0], ShortDefinition: parts[1]}
	if len(parts) > 2 { //nolint:mnd // part of speech position
		line.PartOfSpeech = parts[2]
	}
	if len(parts) > 3 { //nolint:mnd // category position
		line.Category = parts[3]
	}
	return line, true
}
