package expression_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/jacentio/dyndiff/document"
	"github.com/jacentio/dyndiff/expression"
)

const bicycle = `{
  "id": 123,
  "title": "Bicycle 123",
  "description": "123 description",
  "bicycleType": "Hybrid",
  "brand": "Brand-Company C",
  "price": 500,
  "color": ["Red", "Black"],
  "productCategory": "Bicycle",
  "inStok": true,
  "quantityOnHand": null,
  "relatedItems": [341, 472, 649],
  "pictures": {
    "frontView": "http://example.com/products/123_front.jpg",
    "rearView": "http://example.com/products/123_rear.jpg",
    "sideView": "http://example.com/products/123_left_side.jpg"
  },
  "productReview": {
    "fiveStar": ["Excellent! Can't recommend it highly enough! Buy it!", "Do yourself a favor and buy this."],
    "oneStar": ["Terrible product! Do no buy this."]
  },
  "listOfAddresses": [
    {"city": "Tokyo", "street": "123 Main St"},
    {"city": "Perth", "street": "123 Front St"}
  ],
  "comment": "This product sells out quickly during the summer",
  "Safety.Warning": "Always wear a helmet"
}`

const longName = "thisIsAVeryLongAttributeNameAndHadToKeepTypingRandomWordsToTryToGetUpTo255CharactersYouWouldThinkThatThisIsEnoughOrThatItWillHappenOftenWhenYouHaveAnAttributeThatLongYouMightAlsoOpenAnIssueAboutItPleaseDoNotSinceTheLibraryDoesTrimYourNamesAndLimitAliasLen"

// truncated is the token an over-long candidate receives when it is the first of its stem.
func truncated(sigil, candidate string) string {
	return (sigil + candidate)[:251] + "1"
}

func parse(t *testing.T, src string) document.Node {
	t.Helper()
	n, err := document.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return n
}

func with(t *testing.T, doc document.Node, path, value string) document.Node {
	t.Helper()
	out, err := doc.With(document.MustParsePath(path), parse(t, value))
	if err != nil {
		t.Fatalf("with %s: %v", path, err)
	}
	return out
}

// clauses splits an expression into one line per clause for readable diffs.
func clauses(expr string) []string {
	return difflib.SplitLines(strings.NewReplacer(", ", ",\n", " REMOVE ", "\nREMOVE ").Replace(expr))
}

func assertExpression(t *testing.T, name, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	d, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        clauses(want),
		B:        clauses(got),
		FromFile: "expected",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	t.Errorf("%s mismatch:\n%s", name, d)
}

// values flattens the value table to token -> JSON.
func values(e expression.Expression) map[string]string {
	if e.ExpressionAttributeValues == nil {
		return nil
	}
	out := make(map[string]string, len(e.ExpressionAttributeValues))
	for token, v := range e.ExpressionAttributeValues {
		out[token] = v.String()
	}
	return out
}

type want struct {
	update    string
	condition string
	names     map[string]string
	values    map[string]string
}

func assertResult(t *testing.T, w want, got expression.Expression) {
	t.Helper()
	assertExpression(t, "UpdateExpression", w.update, got.UpdateExpression)
	if got.ConditionExpression != w.condition {
		t.Errorf("expected condition %q, got %q", w.condition, got.ConditionExpression)
	}
	if d := cmp.Diff(w.names, got.ExpressionAttributeNames); d != "" {
		t.Errorf("names mismatch (-want +got):\n%s", d)
	}
	if d := cmp.Diff(w.values, values(got)); d != "" {
		t.Errorf("values mismatch (-want +got):\n%s", d)
	}
}
