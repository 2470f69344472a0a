package session

import "github.com/eternisai/socialstream/internal/urlbuilder"

// Method names recognized by switch_method (spec §4.4.A).
const (
	MethodFilter   = "filter"
	MethodFirehose = "firehose"
	MethodLinks    = "links"
	MethodRetweet  = "retweet"
	MethodSample   = "sample"
)

// recognizedMethods is the set of method names listed above. SwitchMethod
// does not consult it: any name is turned into a URL and opened as given.
var recognizedMethods = map[string]bool{
	MethodFilter:   true,
	MethodFirehose: true,
	MethodLinks:    true,
	MethodRetweet:  true,
	MethodSample:   true,
}

// Method is the recorded (name, options) pair for the active request,
// returned verbatim by current_method() (spec §4.4.B).
type Method struct {
	Name    string
	Options []urlbuilder.Option
}
