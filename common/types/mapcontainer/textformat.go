package mapcontainer

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/bytearena/raceline/common/utils/vector"
)

const (
	sectionRaceline = "RACELINE"
	sectionInner    = "INNER_BOUNDARY"
	sectionOuter    = "OUTER_BOUNDARY"
)

// ParseText reads the sectioned text format: a section name, a point count,
// then one "x,y" line per point. Blank lines are skipped.
func ParseText(r io.Reader) (*MapContainer, error) {
	sections := make(map[string][]vector.Vector2)

	scanner := bufio.NewScanner(r)
	lineno := 0

	next := func() (string, bool) {
		for scanner.Scan() {
			lineno++
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				return line, true
			}
		}
		return "", false
	}

	for {
		name, ok := next()
		if !ok {
			break
		}

		switch name {
		case sectionRaceline, sectionInner, sectionOuter:
		default:
			return nil, errors.Errorf("line %d: unknown section %q", lineno, name)
		}

		countLine, ok := next()
		if !ok {
			return nil, errors.Errorf("section %s: missing point count", name)
		}

		count, err := strconv.Atoi(countLine)
		if err != nil || count < 0 {
			return nil, errors.Errorf("line %d: invalid point count %q", lineno, countLine)
		}

		points := make([]vector.Vector2, 0, count)
		for i := 0; i < count; i++ {
			line, ok := next()
			if !ok {
				return nil, errors.Errorf("section %s: expected %d points, got %d", name, count, i)
			}

			p, err := parseTextPoint(line)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineno)
			}

			points = append(points, p)
		}

		sections[name] = points
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "could not read track")
	}

	for _, name := range []string{sectionOuter, sectionInner, sectionRaceline} {
		if _, ok := sections[name]; !ok {
			return nil, errors.Errorf("missing section %s", name)
		}
	}

	return MakeMapContainer("", sections[sectionOuter], sections[sectionInner], sections[sectionRaceline]), nil
}

func parseTextPoint(line string) (vector.Vector2, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return vector.MakeNullVector2(), errors.Errorf("invalid point %q", line)
	}

	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return vector.MakeNullVector2(), errors.Wrapf(err, "invalid x in %q", line)
	}

	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return vector.MakeNullVector2(), errors.Wrapf(err, "invalid y in %q", line)
	}

	return vector.MakeVector2(x, y), nil
}

func WriteText(w io.Writer, m *MapContainer) error {
	outer, inner, err := m.Boundaries()
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)

	for _, section := range []struct {
		name   string
		points []vector.Vector2
	}{
		{sectionRaceline, m.Raceline()},
		{sectionInner, inner},
		{sectionOuter, outer},
	} {
		fmt.Fprintln(bw, section.name)
		fmt.Fprintln(bw, len(section.points))

		for _, p := range section.points {
			fmt.Fprintf(bw, "%s,%s\n",
				strconv.FormatFloat(p.GetX(), 'f', -1, 64),
				strconv.FormatFloat(p.GetY(), 'f', -1, 64),
			)
		}
	}

	return bw.Flush()
}
