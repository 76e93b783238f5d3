package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"

	"github.com/ardnew/gate/lang"
	"github.com/ardnew/gate/pipeline"
)

// Predefined errors (sentinel values).
var (
	ErrConditionFalse   = lang.NewError("condition evaluated to false")
	ErrInvalidCondition = lang.NewError("invalid condition expression")
	ErrEvalFailed       = lang.NewError("condition evaluation failed")
	ErrReadInput        = lang.NewError("failed to read input")
	ErrReadState        = lang.NewError("failed to read state file")
)

// readSource returns the expression text: the argument itself, or stdin
// when the argument is "-".
func readSource(arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}

	// Wrap stdin with async read-ahead so data is pre-fetched while we
	// process previous chunks.
	ra := readahead.NewReader(os.Stdin)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadInput.Wrap(err)
	}

	return strings.TrimSpace(string(data)), nil
}

// stateFile is the YAML document describing the evaluation environment:
// the job status consulted by status predicates, the variable bag behind
// variables(name), and the data document exposed by testData().
type stateFile struct {
	Status    string            `yaml:"status"`
	Variables map[string]string `yaml:"variables"`
	Data      any               `yaml:"data"`
}

// loadEnv builds the pipeline environment from an optional YAML state
// file and a status flag. The flag takes precedence over the file.
func loadEnv(path, status string) (pipeline.Env, error) {
	var env pipeline.Env

	fileStatus := ""

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return env, ErrReadState.Wrap(err)
		}
		defer f.Close()

		ra := readahead.NewReader(f)
		defer ra.Close()

		data, err := io.ReadAll(ra)
		if err != nil {
			return env, ErrReadState.Wrap(err)
		}

		var sf stateFile

		if err := yaml.Unmarshal(data, &sf); err != nil {
			return env, ErrReadState.Wrap(err)
		}

		env.Variables = pipeline.Variables(sf.Variables)
		env.Data = sf.Data
		fileStatus = sf.Status
	}

	if status == "" {
		status = fileStatus
	}

	if status != "" {
		st, err := pipeline.ParseStatus(status)
		if err != nil {
			return env, err
		}

		env.Status = st
	}

	return env, nil
}
