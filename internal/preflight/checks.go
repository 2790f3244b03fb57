package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"comicwebp/internal/config"
	"comicwebp/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckTools resolves every configured external tool on PATH.
func CheckTools(_ context.Context, tools config.Tools) []Result {
	statuses := deps.CheckBinaries(deps.ForTools(tools))
	results := make([]Result, 0, len(statuses))
	for _, status := range statuses {
		result := Result{Name: status.Name, Passed: status.Available, Optional: status.Optional}
		switch {
		case status.Available:
			result.Detail = status.Path
		case status.Optional:
			result.Detail = fmt.Sprintf("%s (optional: %s)", status.Detail, status.Description)
		default:
			result.Detail = fmt.Sprintf("%s (%s)", status.Detail, status.Description)
		}
		results = append(results, result)
	}
	return results
}
