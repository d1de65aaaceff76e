package merge

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
)

var hunkHeaderRe = regexp.MustCompile(`^@@ -\d+(?:,(\d+))? \+\d+(?:,(\d+))? @@`)

// parseHunkHeader returns the old/new line counts declared by a unified
// diff hunk header, defaulting an omitted count to 1 per the format.
func parseHunkHeader(line string) (int, int, error) {
	m := hunkHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return 0, 0, fmt.Errorf("malformed diff hunk header %q", line)
	}
	oldCount, newCount := 1, 1
	if m[1] != "" {
		oldCount, _ = strconv.Atoi(m[1])
	}
	if m[2] != "" {
		newCount, _ = strconv.Atoi(m[2])
	}
	return oldCount, newCount, nil
}

// consumeDiff reads every hunk of the diff that follows a "changed in both"
// record's tree lines, stopping at the first line that cannot belong to a
// hunk. Hunk boundaries are tracked via the old/new line counts declared in
// each "@@ ... @@" header rather than by line content, since a context line
// inside the hunk may itself start with a letter and would otherwise be
// mistaken for the next record's header. A "\ No newline at end of file"
// marker is a continuation of whichever content line precedes it, not a
// line of its own: it never counts against the budget, and one can still
// follow the hunk's last counted line, so it is also swept up once the
// count-driven loop is done.
func consumeDiff(sc *lineScanner) []byte {
	var buf bytes.Buffer
	for {
		raw, ok := sc.peek()
		if !ok || len(raw) == 0 || raw[0] != '@' {
			break
		}
		sc.next()
		buf.Write(raw)
		buf.WriteByte('\n')

		oldCount, newCount, err := parseHunkHeader(string(raw))
		if err != nil {
			break
		}
		for oldCount > 0 || newCount > 0 {
			line, ok := sc.peek()
			if !ok {
				return buf.Bytes()
			}
			if len(line) > 0 && line[0] != ' ' && line[0] != '-' && line[0] != '+' && line[0] != '\\' {
				break
			}
			sc.next()
			buf.Write(line)
			buf.WriteByte('\n')
			if len(line) == 0 {
				oldCount--
				newCount--
				continue
			}
			switch line[0] {
			case ' ':
				oldCount--
				newCount--
			case '-':
				oldCount--
			case '+':
				newCount--
			case '\\':
				// "\ No newline at end of file" — no budget change.
			}
		}
		consumeNoNewlineMarkers(sc, &buf)
	}
	return buf.Bytes()
}

// consumeNoNewlineMarkers appends any "\ No newline at end of file" lines
// immediately following the current position, for the case where the
// marker trails the hunk's very last counted line (so the count-driven
// loop above already exited before it could consume the marker itself).
func consumeNoNewlineMarkers(sc *lineScanner, buf *bytes.Buffer) {
	for {
		raw, ok := sc.peek()
		if !ok || len(raw) == 0 || raw[0] != '\\' {
			return
		}
		sc.next()
		buf.Write(raw)
		buf.WriteByte('\n')
	}
}
