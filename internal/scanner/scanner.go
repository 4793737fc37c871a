// Package scanner обходит дерево проекта и собирает отчёт о файлах исходного кода.
//
// Отчёт содержит вложенную структуру каталогов, содержимое подходящих файлов и
// сводку по количеству файлов, строк и расширений. Каталоги зависимостей и сборки,
// служебные файлы и файлы больше MaxFileSize пропускаются.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"
)

// MaxFileSize - файлы большего размера не попадают в отчёт.
const MaxFileSize = 100 * 1024

// envExample сканируется целиком по имени, а не по расширению.
const envExample = ".env.example"

// Config задаёт, какие файлы и каталоги попадают в отчёт.
type Config struct {
	Extensions    []string
	IgnoreFolders []string
	IgnoreFiles   []string
	MaxFileSize   int64
}

// DefaultConfig возвращает настройки обхода по умолчанию.
func DefaultConfig() Config {
	return Config{
		Extensions: []string{
			".go", ".js", ".jsx", ".ts", ".tsx", ".json", ".md",
			".sql", ".prisma", ".yaml", ".yml", ".mod", envExample,
		},
		IgnoreFolders: []string{"node_modules", ".next", ".git", "dist", "build", ".vercel", "vendor"},
		IgnoreFiles:   []string{".DS_Store", "package-lock.json", "yarn.lock", "go.sum"},
		MaxFileSize:   MaxFileSize,
	}
}

// File описывает один просканированный файл.
type File struct {
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	Lines        int       `json:"lines"`
	Extension    string    `json:"extension"`
	Content      string    `json:"content"`
	LastModified time.Time `json:"lastModified"`
}

// FileRef - краткая ссылка на файл в сводке.
type FileRef struct {
	Path  string `json:"path"`
	Size  int64  `json:"size"`
	Lines int    `json:"lines"`
}

// Summary - сводка по отчёту.
type Summary struct {
	TotalFiles   int            `json:"totalFiles"`
	TotalLines   int            `json:"totalLines"`
	FileTypes    map[string]int `json:"fileTypes"`
	LargestFiles []FileRef      `json:"largestFiles"`
}

// Dir - узел структуры каталогов. Значение - вложенный Dir для каталога
// или строка-описание для файла.
type Dir map[string]any

// Report - результат сканирования.
type Report struct {
	Timestamp   time.Time `json:"timestamp"`
	ProjectPath string    `json:"projectPath"`
	Structure   Dir       `json:"structure"`
	Files       []File    `json:"files"`
	Summary     Summary   `json:"summary"`
}

// Scanner обходит дерево с заданными настройками.
type Scanner struct {
	cfg Config
	now func() time.Time
}

// New создаёт Scanner.
func New(cfg Config) *Scanner {
	return &Scanner{cfg: cfg, now: time.Now}
}

// Scan обходит root и возвращает отчёт. Ошибки чтения отдельных файлов не
// прерывают обход, а попадают в структуру строкой "ERROR: <msg>".
func (s *Scanner) Scan(root string) (*Report, error) {
	const op = "scanner.Scan"

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %s is not a directory", op, abs)
	}

	report := &Report{
		Timestamp:   s.now().UTC(),
		ProjectPath: abs,
		Structure:   Dir{},
		Files:       []File{},
		Summary: Summary{
			FileTypes:    map[string]int{},
			LargestFiles: []FileRef{},
		},
	}
	dirs := map[string]Dir{".": report.Structure}

	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, walkErr error) error {
		rel, err := filepath.Rel(abs, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return walkErr
		}
		parent, ok := dirs[filepath.Dir(rel)]
		if !ok {
			return nil
		}
		name := d.Name()

		if walkErr != nil {
			parent[name] = "ERROR: " + walkErr.Error()
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if slices.Contains(s.cfg.IgnoreFolders, name) {
				return fs.SkipDir
			}
			node := Dir{}
			parent[name] = node
			dirs[rel] = node
			return nil
		}

		if !d.Type().IsRegular() || s.ignoreFile(name) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			parent[name] = "ERROR: " + err.Error()
			return nil
		}
		if fi.Size() > s.cfg.MaxFileSize {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			parent[name] = "ERROR: " + err.Error()
			return nil
		}

		f := File{
			Path:         filepath.ToSlash(rel),
			Size:         fi.Size(),
			Lines:        CountLines(string(content)),
			Extension:    Extension(name),
			Content:      string(content),
			LastModified: fi.ModTime().UTC(),
		}
		report.Files = append(report.Files, f)
		parent[name] = fmt.Sprintf("FILE (%d lines, %d bytes)", f.Lines, f.Size)

		report.Summary.TotalFiles++
		report.Summary.TotalLines += f.Lines
		report.Summary.FileTypes[f.Extension]++
		return nil
	})
	if err != nil && !errors.Is(err, fs.SkipAll) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	report.Summary.LargestFiles = largest(report.Files, 10)
	return report, nil
}

func (s *Scanner) ignoreFile(name string) bool {
	if slices.Contains(s.cfg.IgnoreFiles, name) {
		return true
	}
	return !slices.Contains(s.cfg.Extensions, Extension(name))
}

// Extension возвращает расширение файла. Для ".env.example" расширением считается всё имя.
func Extension(name string) string {
	if strings.HasSuffix(name, envExample) {
		return envExample
	}
	return filepath.Ext(name)
}

// CountLines считает строки как число переводов строки плюс один.
func CountLines(content string) int {
	return strings.Count(content, "\n") + 1
}

func largest(files []File, n int) []FileRef {
	sorted := slices.Clone(files)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Size > sorted[j].Size })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	refs := make([]FileRef, 0, len(sorted))
	for _, f := range sorted {
		refs = append(refs, FileRef{Path: f.Path, Size: f.Size, Lines: f.Lines})
	}
	return refs
}
