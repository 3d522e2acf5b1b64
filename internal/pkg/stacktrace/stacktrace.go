package stacktrace

import "strings"

// InternalPaths extracts the file:line locations under /internal/ from a raw
// goroutine stack, most recent call first. Frames from the runtime and
// third-party code are skipped so panic logs point straight at our code.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")
	paths := make([]string, 0, len(lines))

	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		idx := strings.Index(line, ".go:")
		if idx == -1 || !strings.Contains(line, "/internal/") {
			continue
		}

		end := strings.Index(line[idx:], " ")
		if end == -1 {
			end = len(line)
		} else {
			end += idx
		}

		if start := strings.Index(line[:end], "/internal/"); start != -1 {
			paths = append(paths, line[start+1:end])
		}
	}

	return paths
}
