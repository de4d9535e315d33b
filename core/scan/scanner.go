// Package scan walks the tracked files of a repository looking for debt
// markers, secret patterns, committed env files and oversized files.
package scan

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/huangsam/repoaudit/internal/contract"
	"github.com/huangsam/repoaudit/schema"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/src-d/enry/v2"
)

// Scan limits.
const (
	MaxTodoFindings   = 2000
	MaxSecretFindings = 2000
	MaxLargeFiles     = 100
	MaxTodoText       = 300
	MaxSecretSnippet  = 200
	headSize          = 2048
	bytesPerMB        = 1024 * 1024
)

// todoRe matches a debt marker as a whole word in any case.
var todoRe = regexp.MustCompile(`(?i)\b(TODO|FIXME|HACK|XXX)\b`)

// binaryExts are extensions treated as binary without reading content.
var binaryExts = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {}, ".bmp": {}, ".ico": {},
	".pdf": {}, ".zip": {}, ".gz": {}, ".xz": {}, ".7z": {}, ".rar": {},
	".mp4": {}, ".mov": {}, ".avi": {}, ".mp3": {}, ".wav": {},
	".woff": {}, ".woff2": {}, ".ttf": {}, ".otf": {},
	".psd": {}, ".sketch": {}, ".fig": {}, ".ai": {}, ".blend": {},
}

// Scanner scans the tracked files under RepoPath.
type Scanner struct {
	RepoPath       string
	Rules          RuleSet
	LargeFileBytes int64
}

// Result holds the sections produced by one scan.
type Result struct {
	Debt      schema.DebtReport
	Languages schema.LanguageBreakdown
}

// NewScanner creates a scanner with the default rules and size threshold.
func NewScanner(repoPath string) *Scanner {
	return &Scanner{
		RepoPath:       repoPath,
		Rules:          DefaultRules(),
		LargeFileBytes: 5 * bytesPerMB,
	}
}

// Scan enumerates tracked files and inspects each one. Files that cannot be
// stat'ed, opened or read are skipped; a failed enumeration yields empty sections.
func (s *Scanner) Scan(ctx context.Context, git contract.GitClient) Result {
	res := Result{
		Debt: schema.DebtReport{
			TodoFixme:         []schema.TodoFinding{},
			SecretHits:        []schema.SecretFinding{},
			EnvFilesCommitted: []schema.EnvFileFinding{},
			LargeFiles:        []schema.LargeFileEntry{},
		},
		Languages: schema.LanguageBreakdown{Languages: []schema.LanguageStat{}},
	}

	files, err := git.ListFiles(ctx, s.RepoPath)
	if err != nil {
		contract.LogWarn("Failed to list tracked files", err)
		return res
	}

	langs := make(map[string]int)
	for _, rel := range files {
		if ctx.Err() != nil {
			break
		}
		s.scanFile(rel, &res, langs)
	}

	sort.SliceStable(res.Debt.LargeFiles, func(i, j int) bool {
		return res.Debt.LargeFiles[i].SizeMB > res.Debt.LargeFiles[j].SizeMB
	})
	if len(res.Debt.LargeFiles) > MaxLargeFiles {
		res.Debt.LargeFiles = res.Debt.LargeFiles[:MaxLargeFiles]
	}
	res.Languages.Languages = rankLanguages(langs)

	contract.Logger.WithFields(logrus.Fields{
		"files":   len(files),
		"todos":   len(res.Debt.TodoFixme),
		"secrets": len(res.Debt.SecretHits),
	}).Debug("scan finished")
	return res
}

// scanFile inspects one repo-relative path and records its findings into res.
func (s *Scanner) scanFile(rel string, res *Result, langs map[string]int) {
	full := filepath.Join(s.RepoPath, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil || !info.Mode().IsRegular() {
		return
	}
	base := path.Base(rel)

	if s.LargeFileBytes > 0 && info.Size() >= s.LargeFileBytes {
		res.Debt.LargeFiles = append(res.Debt.LargeFiles, schema.LargeFileEntry{
			Path:   rel,
			SizeMB: round2(float64(info.Size()) / bytesPerMB),
		})
	}
	if strings.HasPrefix(base, ".env") {
		res.Debt.EnvFilesCommitted = append(res.Debt.EnvFilesCommitted, schema.EnvFileFinding{
			Path:          rel,
			VariableCount: countEnvVariables(full),
		})
	}

	f, err := os.Open(full)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()

	head, err := readHead(f)
	if err != nil {
		return
	}
	if IsBinary(base, head) {
		return
	}

	if enry.IsVendor(rel) {
		res.Languages.VendoredFiles++
	} else if lang := enry.GetLanguage(base, head); lang != "" {
		langs[lang]++
	}

	s.scanLines(rel, io.MultiReader(bytes.NewReader(head), f), &res.Debt)
}

// scanLines tests every line of r against the TODO pattern and the rule set.
func (s *Scanner) scanLines(rel string, r io.Reader, debt *schema.DebtReport) {
	reader := bufio.NewReader(r)
	for lineNo := 1; ; lineNo++ {
		raw, err := reader.ReadString('\n')
		if raw != "" {
			s.scanLine(rel, lineNo, raw, debt)
		}
		if err != nil {
			return
		}
	}
}

func (s *Scanner) scanLine(rel string, lineNo int, raw string, debt *schema.DebtReport) {
	line := strings.TrimSpace(strings.ToValidUTF8(raw, ""))
	if line == "" {
		return
	}
	if len(debt.TodoFixme) < MaxTodoFindings && todoRe.MatchString(line) {
		debt.TodoFixme = append(debt.TodoFixme, schema.TodoFinding{
			Path: rel,
			Line: lineNo,
			Text: contract.TruncateRunes(line, MaxTodoText),
		})
	}
	for _, label := range s.Rules.Match(line) {
		if len(debt.SecretHits) >= MaxSecretFindings {
			break
		}
		debt.SecretHits = append(debt.SecretHits, schema.SecretFinding{
			Path:    rel,
			Line:    lineNo,
			Label:   label,
			Snippet: contract.TruncateRunes(line, MaxSecretSnippet),
		})
	}
}

// IsBinary reports whether a file is binary judging by its extension or by
// a NUL byte in its head.
func IsBinary(name string, head []byte) bool {
	if _, ok := binaryExts[strings.ToLower(filepath.Ext(name))]; ok {
		return true
	}
	return bytes.IndexByte(head, 0) >= 0
}

// readHead reads up to headSize bytes from the start of r.
func readHead(r io.Reader) ([]byte, error) {
	buf := make([]byte, headSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	return buf[:n], nil
}

// countEnvVariables parses a dotenv file and returns its variable count,
// or nil when the file is not valid dotenv.
func countEnvVariables(full string) *int {
	f, err := os.Open(full)
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()
	vars, err := godotenv.Parse(f)
	if err != nil {
		return nil
	}
	n := len(vars)
	return &n
}

// rankLanguages orders languages by file count descending, then by name.
func rankLanguages(langs map[string]int) []schema.LanguageStat {
	out := make([]schema.LanguageStat, 0, len(langs))
	for lang, n := range langs {
		out = append(out, schema.LanguageStat{Language: lang, Files: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Files != out[j].Files {
			return out[i].Files > out[j].Files
		}
		return out[i].Language < out[j].Language
	})
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
