package config

import "time"

// DefaultLicenseURL serves the choosealicense.com license templates.
const DefaultLicenseURL = "https://raw.githubusercontent.com/github/choosealicense.com/gh-pages/_licenses/{id}.txt"

// DefaultFetchTimeout bounds the license download when fetch_timeout is unset.
const DefaultFetchTimeout = 10 * time.Second

// DefaultCommitMessage is used for the initial commit.
const DefaultCommitMessage = "Initial commit"

// GetDefaults returns the default configuration values. The flag defaults
// match the command-line table.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"author_name":  "",
		"author_email": "",
		"github_user":  "",
		"license":      "MIT",
		"build_system": "setuptools",
		"layout":       "src",
		"tests":        "unittest",
		"ci":           "github",
		"format":       "none",
		"lint":         "none",
		"env":          "venv",
		"python":       "3",
		"log_file":     "pyinit.log",
		"license_url":  DefaultLicenseURL,
		// fetch_timeout is a Go duration string.
		"fetch_timeout":  DefaultFetchTimeout.String(),
		"vcs_backend":    "git",
		"commit_message": DefaultCommitMessage,
		"python_command": "",
		// curl is not required: the license is fetched over net/http.
		"required_tools": []string{"python3", "git"},
		"no_input":       false,
	}
}
