package parsers

import (
	"fmt"
	"io"
	"strings"

	"github.com/username/mtop/backend/src/models"
)

// Parser converts one source statement format into the normalized ledger.
type Parser interface {
	Parse(file io.Reader) ([]models.Transaction, error)
}

var registry = map[string]func() Parser{}

// Register makes a parser constructor available under a source name. Called
// from the source packages' init functions.
func Register(source string, ctor func() Parser) {
	registry[strings.ToLower(source)] = ctor
}

// GetParser returns a parser for the given source name.
func GetParser(source string) (Parser, error) {
	ctor, ok := registry[strings.ToLower(source)]
	if !ok {
		return nil, fmt.Errorf("no parser registered for source %q", source)
	}
	return ctor(), nil
}
