package config

import "strings"

const badFileName = "_bad_file_name_"

// CleanFileName drops characters not allowed in file names on the current
// platform as well as leading dots.
func CleanFileName(in string) string {
	out := strings.Map(func(sym rune) rune {
		if strings.ContainsRune(reservedFileNameChars, sym) {
			return -1
		}
		return sym
	}, in)
	out = strings.TrimLeft(out, ". ")
	if len(out) == 0 {
		return badFileName
	}
	return out
}
