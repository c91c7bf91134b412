package xcresulttest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// Bundle is a fixture directory served by Fake: root.json holds the root
// object, <id>.json the object for a reference and <id>.payload an exportable
// payload.
type Bundle struct {
	t   testing.TB
	Dir string
}

// NewBundle creates an empty fixture bundle.
func NewBundle(t testing.TB) *Bundle {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "UITests.xcresult")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir bundle: %v", err)
	}
	return &Bundle{t: t, Dir: dir}
}

// PutRoot stores the root document.
func (b *Bundle) PutRoot(doc string) *Bundle {
	return b.Put("root", doc)
}

// Put stores the document returned for ref.
func (b *Bundle) Put(ref, doc string) *Bundle {
	b.t.Helper()
	b.write(ref+".json", []byte(doc))
	return b
}

// PutPayload stores the bytes exported for ref.
func (b *Bundle) PutPayload(ref string, data []byte) *Bundle {
	b.t.Helper()
	b.write(ref+".payload", data)
	return b
}

func (b *Bundle) write(name string, data []byte) {
	b.t.Helper()
	if err := os.WriteFile(filepath.Join(b.Dir, name), data, 0o644); err != nil {
		b.t.Fatalf("write %s: %v", name, err)
	}
}

type typeTag struct {
	Name string `json:"_name"`
}

type value struct {
	Type  typeTag `json:"_type"`
	Value string  `json:"_value"`
}

type reference struct {
	Type typeTag `json:"_type"`
	ID   value   `json:"id"`
}

type array[T any] struct {
	Type   typeTag `json:"_type"`
	Values []T     `json:"_values"`
}

func str(s string) *value {
	if s == "" {
		return nil
	}
	return &value{Type: typeTag{Name: "String"}, Value: s}
}

func ref(id string) *reference {
	if id == "" {
		return nil
	}
	return &reference{Type: typeTag{Name: "Reference"}, ID: value{Type: typeTag{Name: "String"}, Value: id}}
}

func newArray[T any](values []T) array[T] {
	return array[T]{Type: typeTag{Name: "Array"}, Values: values}
}

func mustJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		panic(err)
	}
	return string(data)
}

// RootDoc builds an ActionsInvocationRecord with one action per testsRef id.
// An empty id produces an action without a testsRef.
func RootDoc(testsRefs ...string) string {
	type actionResult struct {
		Type     typeTag    `json:"_type"`
		Status   *value     `json:"status,omitempty"`
		TestsRef *reference `json:"testsRef,omitempty"`
	}
	type actionRecord struct {
		Type         typeTag      `json:"_type"`
		SchemeName   *value       `json:"schemeCommandName,omitempty"`
		ActionResult actionResult `json:"actionResult"`
	}
	type invocationRecord struct {
		Type    typeTag             `json:"_type"`
		Actions array[actionRecord] `json:"actions"`
	}

	actions := make([]actionRecord, 0, len(testsRefs))
	for _, id := range testsRefs {
		actions = append(actions, actionRecord{
			Type:       typeTag{Name: "ActionRecord"},
			SchemeName: str("Test"),
			ActionResult: actionResult{
				Type:     typeTag{Name: "ActionResult"},
				Status:   str("succeeded"),
				TestsRef: ref(id),
			},
		})
	}
	return mustJSON(invocationRecord{
		Type:    typeTag{Name: "ActionsInvocationRecord"},
		Actions: newArray(actions),
	})
}

// Test describes one ActionTestMetadata node.
type Test struct {
	Name       string
	SummaryRef string
}

// PlanDoc builds ActionTestPlanRunSummaries listing tests inside one group.
func PlanDoc(tests ...Test) string {
	type testMetadata struct {
		Type       typeTag    `json:"_type"`
		Name       *value     `json:"name,omitempty"`
		TestStatus *value     `json:"testStatus,omitempty"`
		SummaryRef *reference `json:"summaryRef,omitempty"`
	}
	type summaryGroup struct {
		Type     typeTag             `json:"_type"`
		Name     *value              `json:"name,omitempty"`
		Subtests array[testMetadata] `json:"subtests"`
	}
	type testableSummary struct {
		Type  typeTag             `json:"_type"`
		Tests array[summaryGroup] `json:"tests"`
	}
	type planRunSummary struct {
		Type              typeTag                `json:"_type"`
		TestableSummaries array[testableSummary] `json:"testableSummaries"`
	}
	type planRunSummaries struct {
		Type      typeTag               `json:"_type"`
		Summaries array[planRunSummary] `json:"summaries"`
	}

	metas := make([]testMetadata, 0, len(tests))
	for _, tc := range tests {
		metas = append(metas, testMetadata{
			Type:       typeTag{Name: "ActionTestMetadata"},
			Name:       str(tc.Name),
			TestStatus: str("Success"),
			SummaryRef: ref(tc.SummaryRef),
		})
	}
	group := summaryGroup{
		Type:     typeTag{Name: "ActionTestSummaryGroup"},
		Name:     str("UITests"),
		Subtests: newArray(metas),
	}
	return mustJSON(planRunSummaries{
		Type: typeTag{Name: "ActionTestPlanRunSummaries"},
		Summaries: newArray([]planRunSummary{{
			Type: typeTag{Name: "ActionTestPlanRunSummary"},
			TestableSummaries: newArray([]testableSummary{{
				Type:  typeTag{Name: "ActionTestableSummary"},
				Tests: newArray([]summaryGroup{group}),
			}}),
		}}),
	})
}

// Attachment describes one ActionTestAttachment node.
type Attachment struct {
	Name       string
	UTI        string
	PayloadRef string
}

// PNG is shorthand for a public.png attachment.
func PNG(name, payloadRef string) Attachment {
	return Attachment{Name: name, UTI: "public.png", PayloadRef: payloadRef}
}

// SummaryDoc builds an ActionTestSummary whose activity carries atts.
func SummaryDoc(atts ...Attachment) string {
	type attachment struct {
		Type       typeTag    `json:"_type"`
		Name       *value     `json:"name,omitempty"`
		UTI        *value     `json:"uniformTypeIdentifier,omitempty"`
		PayloadRef *reference `json:"payloadRef,omitempty"`
	}
	type activitySummary struct {
		Type        typeTag           `json:"_type"`
		Title       *value            `json:"title,omitempty"`
		Attachments array[attachment] `json:"attachments"`
	}
	type testSummary struct {
		Type              typeTag                `json:"_type"`
		Name              *value                 `json:"name,omitempty"`
		ActivitySummaries array[activitySummary] `json:"activitySummaries"`
	}

	items := make([]attachment, 0, len(atts))
	for _, a := range atts {
		items = append(items, attachment{
			Type:       typeTag{Name: "ActionTestAttachment"},
			Name:       str(a.Name),
			UTI:        str(a.UTI),
			PayloadRef: ref(a.PayloadRef),
		})
	}
	return mustJSON(testSummary{
		Type: typeTag{Name: "ActionTestSummary"},
		Name: str("testScreenshots()"),
		ActivitySummaries: newArray([]activitySummary{{
			Type:        typeTag{Name: "ActionTestActivitySummary"},
			Title:       str("Added attachment"),
			Attachments: newArray(items),
		}}),
	})
}
