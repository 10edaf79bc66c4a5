package syntax

import (
	"github.com/smacker/go-tree-sitter/golang"
)

func init() {
	RegisterLanguage("go", golang.GetLanguage(), []string{".go"})
}
