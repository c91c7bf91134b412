// Package resolver follows the xcresult reference chain from the bundle root
// to the PNG attachments recorded by each test.
package resolver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bgricker/xcshots/internal/filter"
	"github.com/bgricker/xcshots/internal/tree"
)

// Object graph names used by xcresulttool's legacy JSON format.
const (
	typeTestMetadata   = "ActionTestMetadata"
	typeTestAttachment = "ActionTestAttachment"
	utiPNG             = "public.png"
	unknownTestName    = "unknown"
)

var (
	// ErrBundleUnreadable means the bundle root could not be fetched. It is
	// the only fatal outcome.
	ErrBundleUnreadable = errors.New("could not read xcresult")
	// ErrNoTestsRef means no action carries a tests reference.
	ErrNoTestsRef = errors.New("no testsRef found in xcresult")
	// ErrNoPlanSummaries means the tests reference could not be fetched.
	ErrNoPlanSummaries = errors.New("could not read test plan summaries")
	// ErrNoSummaryRefs means no test metadata carries a summary reference.
	ErrNoSummaryRefs = errors.New("no per-test summaryRef found")
	// ErrNoAttachments means no qualifying PNG attachment was found.
	ErrNoAttachments = errors.New("no named PNG screenshots found")
)

// Soft reports whether err is an expected absence that should end the run
// successfully with a warning.
func Soft(err error) bool {
	return errors.Is(err, ErrNoTestsRef) ||
		errors.Is(err, ErrNoPlanSummaries) ||
		errors.Is(err, ErrNoSummaryRefs) ||
		errors.Is(err, ErrNoAttachments)
}

// Reader fetches bundle objects. An empty ref means the bundle root.
type Reader interface {
	Get(ctx context.Context, ref string) (*tree.Node, bool)
}

// Test is one test case with a summary reference.
type Test struct {
	Name       string `json:"name"`
	SummaryRef string `json:"summary_ref"`
}

// Attachment is a PNG attachment that can be exported.
type Attachment struct {
	Name       string `json:"name"`
	PayloadRef string `json:"payload_ref"`
	Test       string `json:"test"`
}

// Result is everything learned while walking the chain. Fields are filled
// as far as the walk got, even when Resolve returns an error.
type Result struct {
	TestsRef    string
	Tests       []Test
	Unreadable  []Test
	Attachments []Attachment
}

// Options tune the walk.
type Options struct {
	Tests       filter.Selector
	Attachments filter.Selector
	Logger      *slog.Logger
}

// Resolver walks root → test plan → per-test summary → attachments.
type Resolver struct {
	reader Reader
	opts   Options
}

// New creates a resolver reading through r.
func New(r Reader, opts Options) *Resolver {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{reader: r, opts: opts}
}

// Resolve performs the walk. Errors are ErrBundleUnreadable or one of the
// soft sentinels.
func (r *Resolver) Resolve(ctx context.Context) (Result, error) {
	var res Result

	root, ok := r.reader.Get(ctx, "")
	if !ok {
		return res, ErrBundleUnreadable
	}

	res.TestsRef = TestsRef(root)
	if res.TestsRef == "" {
		return res, ErrNoTestsRef
	}
	r.opts.Logger.Debug("found tests reference", "ref", res.TestsRef)

	plan, ok := r.reader.Get(ctx, res.TestsRef)
	if !ok {
		return res, ErrNoPlanSummaries
	}

	for _, test := range Tests(plan) {
		if !r.opts.Tests.Keep(test.Name) {
			r.opts.Logger.Debug("test filtered out", "test", test.Name)
			continue
		}
		res.Tests = append(res.Tests, test)
	}
	if len(res.Tests) == 0 {
		return res, ErrNoSummaryRefs
	}

	for _, test := range res.Tests {
		summary, ok := r.reader.Get(ctx, test.SummaryRef)
		if !ok {
			r.opts.Logger.Debug("skipping unreadable test summary", "test", test.Name, "ref", test.SummaryRef)
			res.Unreadable = append(res.Unreadable, test)
			continue
		}
		for _, att := range Attachments(summary) {
			if !r.opts.Attachments.Keep(att.Name) {
				r.opts.Logger.Debug("attachment filtered out", "test", test.Name, "attachment", att.Name)
				continue
			}
			att.Test = test.Name
			res.Attachments = append(res.Attachments, att)
		}
	}
	if len(res.Attachments) == 0 {
		return res, ErrNoAttachments
	}
	return res, nil
}

// TestsRef returns the tests reference of the first action that has one.
func TestsRef(root *tree.Node) string {
	for _, action := range root.Path("actions", "_values").Elements() {
		id := value(action, "actionResult", "testsRef", "id")
		if id != "" {
			return id
		}
	}
	return ""
}

// Tests returns every test metadata node that carries a summary reference,
// in document order.
func Tests(plan *tree.Node) []Test {
	var tests []Test
	for _, meta := range tree.CollectByType(plan, typeTestMetadata) {
		ref := value(meta, "summaryRef", "id")
		if ref == "" {
			continue
		}
		name, ok := meta.Path("name", "_value").Text()
		if !ok {
			name = unknownTestName
		}
		tests = append(tests, Test{Name: name, SummaryRef: ref})
	}
	return tests
}

// Attachments returns the named PNG attachments in a test summary, in
// document order.
func Attachments(summary *tree.Node) []Attachment {
	var atts []Attachment
	for _, node := range tree.CollectByType(summary, typeTestAttachment) {
		name := value(node, "name")
		ref := value(node, "payloadRef", "id")
		uti := value(node, "uniformTypeIdentifier")
		if name == "" || ref == "" || uti != utiPNG {
			continue
		}
		atts = append(atts, Attachment{Name: name, PayloadRef: ref})
	}
	return atts
}

// value reads the `_value` wrapper at the end of keys.
func value(n *tree.Node, keys ...string) string {
	s, _ := n.Path(append(keys, "_value")...).Text()
	return s
}
