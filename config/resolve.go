package config

import (
	"os"

	"github.com/joho/godotenv"
)

// FileSystem abstracts the file lookups of the Resolver for tests.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem reads the local disk.
type RealFileSystem struct{}

func (RealFileSystem) Exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// LoadEnv exports a .env file. Variables already set in the process win.
func (RealFileSystem) LoadEnv(p string) error { return godotenv.Load(p) }

// Resolver locates the config and .env files of a service.
type Resolver struct {
	FileSystem FileSystem
}

type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles keeps explicit paths from opts and searches for the rest.
func (r *Resolver) ResolveFiles(service string, opts LoaderConfig) ResolvedFiles {
	files := ResolvedFiles{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = r.first(configCandidates(service))
	}
	if files.EnvFile == "" {
		files.EnvFile = r.first(envCandidates(service))
	}
	return files
}

func (r *Resolver) first(candidates []string) string {
	for _, p := range candidates {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// configCandidates lists cmd/<service>/config.yml from the working directory
// and up to two parents, then the repo-level fallbacks.
func configCandidates(service string) []string {
	var out []string
	for _, up := range []string{".", "..", "../.."} {
		out = append(out, up+"/cmd/"+service+"/config.yml")
	}
	return append(out, "./config/config.yml", "./config.yml")
}

// envCandidates prefers .env.<service> over .env, each looked up next to
// the service's config first and then in the working directory and its
// parents.
func envCandidates(service string) []string {
	dirs := []string{"./cmd/" + service, ".", "..", "../.."}
	var out []string
	for _, name := range []string{".env." + service, ".env"} {
		for _, dir := range dirs {
			out = append(out, dir+"/"+name)
		}
	}
	return out
}
