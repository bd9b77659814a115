package styles

import "sync"

const defaultStyleMapText = `
# headings by style id
p#Heading1 => h1:fresh
p#Heading2 => h2:fresh
p#Heading3 => h3:fresh
p#Heading4 => h4:fresh
p#Heading5 => h5:fresh
p#Heading6 => h6:fresh

p:unordered-list(1) => ul > li:fresh
p:unordered-list(2) => ul|ol > li > ul > li:fresh
p:unordered-list(3) => ul|ol > li > ul|ol > li > ul > li:fresh
p:unordered-list(4) => ul|ol > li > ul|ol > li > ul|ol > li > ul > li:fresh
p:unordered-list(5) => ul|ol > li > ul|ol > li > ul|ol > li > ul|ol > li > ul > li:fresh

p:ordered-list(1) => ol > li:fresh
p:ordered-list(2) => ul|ol > li > ol > li:fresh
p:ordered-list(3) => ul|ol > li > ul|ol > li > ol > li:fresh
p:ordered-list(4) => ul|ol > li > ul|ol > li > ul|ol > li > ol > li:fresh
p:ordered-list(5) => ul|ol > li > ul|ol > li > ul|ol > li > ul|ol > li > ol > li:fresh
`

var defaultStyleMap = sync.OnceValue(func() StyleMap {
	return MustParseStyleMap(defaultStyleMapText)
})

// DefaultStyleMap returns built in style map used after user supplied rules.
func DefaultStyleMap() StyleMap {
	return defaultStyleMap()
}
