package logging

// Silent discards everything. Library callers that want no console output
// (e.g. an embedding IDE integration driving the engine programmatically)
// pass this in.
type Silent struct{}

func (Silent) Info(msg string, args ...any)  {}
func (Silent) Warn(msg string, args ...any)  {}
func (Silent) Error(msg string, args ...any) {}
func (Silent) Debug(msg string, args ...any) {}

func (Silent) Progress(label string, completed, total int) {}
func (Silent) ClearProgress(label string)                  {}
