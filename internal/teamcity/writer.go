package teamcity

import (
	"fmt"
	"io"
	"strconv"
)

// FailureType is the category attached to every testFailed message.
const FailureType = "vulnerability"

// Writer writes TeamCity service messages, one per line.
//
// Attribute values are written as given; callers pass text through Normalize first.
// The first write error is kept and every later call becomes a no-op, see Err.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter returns a Writer that emits service messages to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered while writing, if any.
func (tw *Writer) Err() error {
	return tw.err
}

// TestStarted opens a test. TeamCity shows captureStandardOutput alongside the test.
func (tw *Writer) TestStarted(name, captured string) {
	tw.printf("##teamcity[testStarted name='%s' captureStandardOutput='%s']\n", name, captured)
}

// TestStdOut attaches output to a running test.
func (tw *Writer) TestStdOut(name, out string) {
	tw.printf("##teamcity[testStdOut name='%s' out='%s']\n", name, out)
}

// TestIgnored marks a running test as ignored.
func (tw *Writer) TestIgnored(name, message string) {
	tw.printf("##teamcity[testIgnored name='%s' message='%s']\n", name, message)
}

// TestFailed marks a running test as failed.
func (tw *Writer) TestFailed(name, message, details string) {
	tw.printf("##teamcity[testFailed name='%s' message='%s' details='%s' type='%s']\n",
		name, message, details, FailureType)
}

// TestFinished closes a test.
func (tw *Writer) TestFinished(name string) {
	tw.printf("##teamcity[testFinished name='%s']\n", name)
}

// BuildStatisticValue reports a numeric build statistic.
func (tw *Writer) BuildStatisticValue(key string, value float64) {
	tw.printf("##teamcity[buildStatisticValue key='%s' value='%s']\n",
		key, strconv.FormatFloat(value, 'f', -1, 64))
}

func (tw *Writer) printf(format string, args ...interface{}) {
	if tw.err != nil {
		return
	}
	if _, err := fmt.Fprintf(tw.w, format, args...); err != nil {
		tw.err = fmt.Errorf("failed to write service message: %w", err)
	}
}
