// Package aligners has helpers for working with aligner index files
package aligners

import (
	"fmt"
	"regexp"
)

// Hisat2IndexCount is the number of files in a HISAT2 index
const Hisat2IndexCount = 8

var hisat2IndexPattern = regexp.MustCompile(`^(.+)\.[0-9]+\.ht2l?$`)

// PrefixFromHisat2Index returns the prefix shared by a set of HISAT2 index
// files, i.e. the value to give hisat2's -x option
func PrefixFromHisat2Index(indexFiles []string) (string, error) {
	if len(indexFiles) == 0 {
		return "", fmt.Errorf("no HISAT2 index files given")
	}
	prefix := ""
	for _, f := range indexFiles {
		m := hisat2IndexPattern.FindStringSubmatch(f)
		if m == nil {
			return "", fmt.Errorf("not a HISAT2 index file name (<prefix>.<n>.ht2): %s", f)
		}
		if prefix == "" {
			prefix = m[1]
			continue
		}
		if m[1] != prefix {
			return "", fmt.Errorf("HISAT2 index files have different prefixes: %s and %s", prefix, m[1])
		}
	}
	return prefix, nil
}

// Hisat2IndexFromPrefix returns the HISAT2 index files for an index prefix
func Hisat2IndexFromPrefix(prefix string) []string {
	files := make([]string, 0, Hisat2IndexCount)
	for i := 1; i <= Hisat2IndexCount; i++ {
		files = append(files, fmt.Sprintf("%s.%d.ht2", prefix, i))
	}
	return files
}
