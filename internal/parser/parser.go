package parser

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language names the tree-sitter grammar used for a file
type Language string

const (
	LanguageTypeScript Language = "typescript"
	LanguageTSX        Language = "tsx"
	LanguageJavaScript Language = "javascript"
)

// ErrUnsupportedLanguage is returned for files no grammar is registered for
var ErrUnsupportedLanguage = errors.New("unsupported language")

var languageByExtension = map[string]Language{
	".ts":  LanguageTypeScript,
	".mts": LanguageTypeScript,
	".cts": LanguageTypeScript,
	".tsx": LanguageTSX,
	".js":  LanguageJavaScript,
	".jsx": LanguageJavaScript,
	".mjs": LanguageJavaScript,
	".cjs": LanguageJavaScript,
}

// Parser pools to avoid recreating parsers, one per grammar
var parserPools = map[Language]*sync.Pool{
	LanguageTypeScript: newParserPool(typescript.GetLanguage()),
	LanguageTSX:        newParserPool(tsx.GetLanguage()),
	LanguageJavaScript: newParserPool(javascript.GetLanguage()),
}

func newParserPool(lang *sitter.Language) *sync.Pool {
	return &sync.Pool{
		New: func() interface{} {
			parser := sitter.NewParser()
			parser.SetLanguage(lang)
			return parser
		},
	}
}

// LanguageForPath picks the grammar from the file extension
func LanguageForPath(path string) (Language, error) {
	lang, ok := languageByExtension[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedLanguage, path)
	}
	return lang, nil
}

// Parse builds a File from content using the grammar for lang
func Parse(ctx context.Context, path string, content []byte, lang Language) (*File, error) {
	pool, ok := parserPools[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}

	parser := pool.Get().(*sitter.Parser)
	defer pool.Put(parser)

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return newFile(path, content, tree), nil
}

// ParseFile is Parse with the language taken from the path
func ParseFile(ctx context.Context, path string, content []byte) (*File, error) {
	lang, err := LanguageForPath(path)
	if err != nil {
		return nil, err
	}
	return Parse(ctx, path, content, lang)
}
