package structure

import (
	"errors"
	"reflect"
	"testing"
)

const pySample = `# login automation helpers
import os
import time, json
from selenium.webdriver import Chrome, Firefox

class LoginPage:
    """Page object for the login form."""

    def open(self, url):
        """Navigate to the login page."""
        pass

    def submit(self, username, password="secret"):
        # click the submit button
        pass

def wait_for(condition, timeout=10):
    '''Poll until condition holds.'''
    pass
`

func TestPythonExtract(t *testing.T) {
	t.Parallel()
	info, err := ForFile("login_test.py").Extract(pySample)
	if err != nil {
		t.Fatal(err)
	}

	if len(info.Types) != 1 || info.Types[0].Name != "LoginPage" {
		t.Fatalf("types = %#v, want one LoginPage", info.Types)
	}
	if info.Types[0].Docstring != "Page object for the login form." {
		t.Fatalf("class docstring = %q", info.Types[0].Docstring)
	}
	if !reflect.DeepEqual(info.Types[0].Members, []string{"open", "submit"}) {
		t.Fatalf("members = %#v", info.Types[0].Members)
	}

	var names []string
	for _, fn := range info.Functions {
		names = append(names, fn.Name)
	}
	if !reflect.DeepEqual(names, []string{"open", "submit", "wait_for"}) {
		t.Fatalf("functions = %#v", names)
	}

	var waitFor Declaration
	for _, fn := range info.Functions {
		if fn.Name == "wait_for" {
			waitFor = fn
		}
	}
	if !reflect.DeepEqual(waitFor.Params, []string{"condition", "timeout"}) {
		t.Fatalf("wait_for params = %#v", waitFor.Params)
	}
	if waitFor.Docstring != "Poll until condition holds." {
		t.Fatalf("wait_for docstring = %q", waitFor.Docstring)
	}

	wantImports := []string{"os", "time", "json", "selenium.webdriver.Chrome", "selenium.webdriver.Firefox"}
	if !reflect.DeepEqual(info.Imports, wantImports) {
		t.Fatalf("imports = %#v, want %#v", info.Imports, wantImports)
	}

	wantComments := []string{"login automation helpers", "click the submit button"}
	if !reflect.DeepEqual(info.Comments, wantComments) {
		t.Fatalf("comments = %#v, want %#v", info.Comments, wantComments)
	}
}

func TestPythonExtractMalformed(t *testing.T) {
	t.Parallel()
	_, err := ForFile("bad.py").Extract("def broken no parens\n")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("got %v, want *ParseError", err)
	}
}

const goSample = `package shop

import (
	"fmt"
	"strings"
)

// Cart tracks items before checkout.
type Cart struct {
	items []string
}

// Pricer computes totals.
type Pricer interface {
	Total(items []string) int
}

// Add puts an item in the cart.
func (c *Cart) Add(item string) {
	// normalize before storing
	c.items = append(c.items, strings.ToLower(item))
}

// Describe renders a summary line.
func Describe(c *Cart, verbose bool) string {
	return fmt.Sprint(len(c.items))
}
`

func TestGoExtract(t *testing.T) {
	t.Parallel()
	info, err := ForFile("cart.go").Extract(goSample)
	if err != nil {
		t.Fatal(err)
	}

	if len(info.Types) != 2 {
		t.Fatalf("types = %#v, want Cart and Pricer", info.Types)
	}
	if info.Types[0].Name != "Cart" || info.Types[0].Docstring != "Cart tracks items before checkout." {
		t.Fatalf("Cart decl = %#v", info.Types[0])
	}
	if !reflect.DeepEqual(info.Types[0].Members, []string{"Add"}) {
		t.Fatalf("Cart members = %#v", info.Types[0].Members)
	}
	if !reflect.DeepEqual(info.Types[1].Members, []string{"Total"}) {
		t.Fatalf("Pricer members = %#v", info.Types[1].Members)
	}

	var describe Declaration
	for _, fn := range info.Functions {
		if fn.Name == "Describe" {
			describe = fn
		}
	}
	if !reflect.DeepEqual(describe.Params, []string{"c", "verbose"}) {
		t.Fatalf("Describe params = %#v", describe.Params)
	}

	if !reflect.DeepEqual(info.Imports, []string{"fmt", "strings"}) {
		t.Fatalf("imports = %#v", info.Imports)
	}
}

func TestGoExtractSyntaxError(t *testing.T) {
	t.Parallel()
	_, err := ForFile("bad.go").Extract("package x\nfunc {")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("got %v, want *ParseError", err)
	}
}

func TestForFileUnknownExtension(t *testing.T) {
	t.Parallel()
	if ex := ForFile("notes.txt"); ex != nil {
		t.Fatalf("expected nil extractor for .txt, got %T", ex)
	}
}
