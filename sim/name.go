package sim

import (
	"strconv"
	"strings"
)

// NameMustBeValid panics if the name does not follow the naming convention.
// Names are organized hierarchically with dot-separated tokens. Each token
// must be non-empty, capitalized CamelCase, with optional square-bracket
// indices for elements in a series.
func NameMustBeValid(name string) {
	defer func() {
		if r := recover(); r != nil {
			panic("name " + name + " is not valid: " + r.(string))
		}
	}()

	tokens := strings.Split(name, ".")
	for _, token := range tokens {
		tokenMustBeValid(token)
	}
}

func tokenMustBeValid(token string) {
	bracketsMustMatch(token)

	elemName := strings.Split(token, "[")[0]

	if elemName == "" {
		panic("name element must not be empty")
	}

	invalidChars := []string{"_", "\"", "'", "-"}
	for _, c := range invalidChars {
		if strings.Contains(elemName, c) {
			panic("name element must not contain " + c)
		}
	}

	if elemName[0] < 'A' || elemName[0] > 'Z' {
		panic("name element must start with a capital letter")
	}
}

func bracketsMustMatch(token string) {
	openBracketCount := 0
	for _, c := range token {
		switch c {
		case '[':
			openBracketCount++
		case ']':
			openBracketCount--
			if openBracketCount < 0 {
				panic("name brackets must match")
			}
		}
	}

	if openBracketCount != 0 {
		panic("name brackets must match")
	}
}

// BuildName builds a name from a parent name and an element name.
func BuildName(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}

// BuildNameWithIndex builds a name from a parent name, an element name, and
// an index.
func BuildNameWithIndex(parentName, elementName string, index int) string {
	return BuildName(parentName, elementName+"["+strconv.Itoa(index)+"]")
}
