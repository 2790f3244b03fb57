// Package deps checks that the external tools the pipeline shells out to are
// installed.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"comicwebp/internal/config"
)

// Requirement defines an external tool comicwebp relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Path        string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// ForTools lists the configured tools. unrar is optional because only rar
// inputs need it.
func ForTools(tools config.Tools) []Requirement {
	return []Requirement{
		{Name: "MIME probe", Command: tools.MimeProbe, Description: "Identifies the archive format"},
		{Name: "7-Zip", Command: tools.SevenZip, Description: "Extracts zip archives and writes the output"},
		{Name: "UnRAR", Command: tools.Unrar, Description: "Extracts rar archives", Optional: true},
		{Name: "cwebp", Command: tools.Cwebp, Description: "Encodes still images"},
		{Name: "gif2webp", Command: tools.Gif2webp, Description: "Encodes GIF images"},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = path
		results = append(results, status)
	}
	return results
}

// MissingRequired reports the names of required dependencies that are not
// available.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status.Name)
		}
	}
	return missing
}
