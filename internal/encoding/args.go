package encoding

import (
	"path/filepath"
	"strings"
)

// BuildArgs assembles the encoder argument vector for inputPath.
//
// With both strings empty the result is -i <input> -y <output>. Otherwise the
// pre-input tokens come first and the post-input tokens sit between -y and the
// output path. A side that is empty contributes no tokens. Runs of spaces are
// not collapsed, so "a  b" yields an empty argument between a and b.
func BuildArgs(preArgs, postArgs, inputPath, outputDir string) []string {
	output := OutputPath(inputPath, outputDir)
	if preArgs == "" && postArgs == "" {
		return []string{"-i", inputPath, "-y", output}
	}
	args := make([]string, 0, 8)
	args = append(args, splitArgs(preArgs)...)
	args = append(args, "-i", inputPath, "-y")
	args = append(args, splitArgs(postArgs)...)
	args = append(args, output)
	return args
}

// OutputPath returns where the encoder is asked to write inputPath.
func OutputPath(inputPath, outputDir string) string {
	return filepath.Join(outputDir, filepath.Base(inputPath))
}

func splitArgs(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, " ")
}
