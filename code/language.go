package code

import "strings"

// Language is a human-readable language tag.
type Language string

const (
	PHP        Language = "PHP"
	React      Language = "JavaScript (React)"
	Python     Language = "Python"
	JavaScript Language = "JavaScript"
	CFamily    Language = "Java/C#/C++"
	Java       Language = "Java"
	HTML       Language = "HTML"
	CSS        Language = "CSS"
	SQL        Language = "SQL"
	Generic    Language = "Code"
)

type rule struct {
	lang  Language
	match func(text string) bool
}

func containsAny(subs ...string) func(string) bool {
	return func(text string) bool {
		for _, s := range subs {
			if strings.Contains(text, s) {
				return true
			}
		}
		return false
	}
}

func containsAll(subs ...string) func(string) bool {
	return func(text string) bool {
		for _, s := range subs {
			if !strings.Contains(text, s) {
				return false
			}
		}
		return true
	}
}

// rules is evaluated top to bottom and the first match wins. The order is
// part of the contract: "```javascript" must be tested before "```java", and
// the brace rules shadow the fence annotations.
var rules = []rule{
	{PHP, containsAny("<?php", "$")},
	{React, containsAny("import React", "function Component")},
	{Python, containsAny("from flask", "def ")},
	{JavaScript, containsAll("function", "{")},
	{CFamily, containsAll("class", "{")},
	{HTML, containsAny("<html", "<div")},
	{CSS, containsAny("color:", "margin:")},
	{SQL, containsAny("SELECT", "FROM")},
	{Python, containsAny("```python")},
	{JavaScript, containsAny("```javascript")},
	{Java, containsAny("```java")},
	{HTML, containsAny("```html")},
	{CSS, containsAny("```css")},
	{SQL, containsAny("```sql")},
}

// DetectLanguage returns the language tag of the first matching rule, or
// Generic when nothing matches.
func DetectLanguage(text string) Language {
	for _, r := range rules {
		if r.match(text) {
			return r.lang
		}
	}
	return Generic
}

var extensions = map[Language]string{
	PHP:        "php",
	React:      "jsx",
	Python:     "py",
	JavaScript: "js",
	CFamily:    "java",
	Java:       "java",
	HTML:       "html",
	CSS:        "css",
	SQL:        "sql",
}

// Extension returns the canonical file extension for lang, "txt" for Generic
// and any unknown tag.
func Extension(lang Language) string {
	if ext, ok := extensions[lang]; ok {
		return ext
	}
	return "txt"
}
