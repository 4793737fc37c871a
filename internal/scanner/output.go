package scanner

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// DefaultKeyFiles - фрагменты путей, наличие которых проверяет WriteSummary.
var DefaultKeyFiles = []string{
	"go.mod",
	"cmd/subsense",
	"internal/services/subscription",
	"internal/dashboard",
	"migrations",
}

// DefaultFilters - фрагменты путей файлов, попадающих в дайджест.
var DefaultFilters = []string{
	"subscription",
	"dashboard",
	"identity",
	"migrations",
	"go.mod",
}

var languages = map[string]string{
	".go":     "go",
	".js":     "javascript",
	".jsx":    "jsx",
	".ts":     "typescript",
	".tsx":    "tsx",
	".json":   "json",
	".prisma": "prisma",
	".md":     "markdown",
	".sql":    "sql",
	".yaml":   "yaml",
	".yml":    "yaml",
}

// Language возвращает метку блока кода для расширения.
func Language(ext string) string {
	if lang, ok := languages[ext]; ok {
		return lang
	}
	return "text"
}

// WriteJSON пишет отчёт с отступами.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("scanner.WriteJSON: %w", err)
	}
	return nil
}

// SaveJSON сохраняет отчёт в файл.
func SaveJSON(path string, r *Report) error {
	const op = "scanner.SaveJSON"
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := WriteJSON(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// WriteSummary печатает обзор отчёта и проверку ключевых файлов.
func WriteSummary(w io.Writer, r *Report, keyFiles []string) {
	fmt.Fprintln(w, "PROJECT SUMMARY")
	fmt.Fprintln(w, "===============")
	fmt.Fprintf(w, "Path: %s\n", r.ProjectPath)
	fmt.Fprintf(w, "Files: %d\n", r.Summary.TotalFiles)
	fmt.Fprintf(w, "Lines: %d\n", r.Summary.TotalLines)
	fmt.Fprintln(w, "\nFile types:")
	for _, ext := range sortedKeys(r.Summary.FileTypes) {
		fmt.Fprintf(w, "  %s: %d\n", ext, r.Summary.FileTypes[ext])
	}

	fmt.Fprintln(w, "\nKey files:")
	for _, key := range keyFiles {
		if f, ok := r.Find(key); ok {
			fmt.Fprintf(w, "  [x] %s (%d lines)\n", f.Path, f.Lines)
		} else {
			fmt.Fprintf(w, "  [ ] not found: %s\n", key)
		}
	}
}

// Find возвращает первый файл, путь которого содержит fragment.
func (r *Report) Find(fragment string) (File, bool) {
	for _, f := range r.Files {
		if strings.Contains(f.Path, fragment) {
			return f, true
		}
	}
	return File{}, false
}

// WriteDigest пишет Markdown-дайджест: дерево проекта и содержимое файлов,
// путь которых содержит один из filters (без учёта регистра).
// Файл, подходящий под несколько фильтров, выводится один раз.
func WriteDigest(w io.Writer, r *Report, filters []string) error {
	var b strings.Builder
	b.WriteString("# Project digest\n\n")
	b.WriteString("**Project structure:**\n")
	writeTree(&b, r.Structure, 0)

	b.WriteString("\n\n**Key files content:**\n")
	b.WriteString("========================\n\n")

	seen := make(map[string]bool)
	for _, filter := range filters {
		filter = strings.ToLower(filter)
		for _, f := range r.Files {
			if seen[f.Path] || !strings.Contains(strings.ToLower(f.Path), filter) {
				continue
			}
			seen[f.Path] = true
			fmt.Fprintf(&b, "## %s\n", f.Path)
			fmt.Fprintf(&b, "```%s\n", Language(f.Extension))
			b.WriteString(f.Content)
			b.WriteString("\n```\n\n")
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("scanner.WriteDigest: %w", err)
	}
	return nil
}

func writeTree(b *strings.Builder, dir Dir, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, name := range sortedKeys(dir) {
		if sub, ok := dir[name].(Dir); ok {
			fmt.Fprintf(b, "%s%s/\n", indent, name)
			writeTree(b, sub, depth+1)
			continue
		}
		fmt.Fprintf(b, "%s%s\n", indent, name)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
