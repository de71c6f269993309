package diff_test

import (
	"testing"

	"github.com/jacentio/dyndiff/document"
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

type update struct {
	path  string
	value string
}

// additions are applied in order, so new parents appear in document order.
var additions = []update{
	{"$.root0", `"root0"`},
	{"$.newParent.newChild1.newGrandChild1", `"c1gc1"`},
	{"$.newParent.newChild1.newGrandChild2", `"c1gc"`},
	{"$.newParent.newChild2.newGrandChild1", `"c2gc1"`},
	{"$.newParent.newChild2.newGrandChild2", `"c2gc2"`},
	{"$.newParent.newChild3", `{}`},
	{"$.pictures.otherSideView", `"pictures.otherSideView"`},
	{"$.color[2]", `"Blue"`},
	{"$.relatedItems[3]", `1000`},
	{"$.productReview.oneStar[1]", `"Never again!"`},
	{`$["prefix-suffix"]`, `"Value for attribute name with -"`},
	{`$["name with space"]`, `"name with spaces is also okay"`},
	{`$["1atBeginning"]`, `"name starting with number is also okay"`},
	{"$.productReview." + longName, `"Value for attribute name with 255 characters excluding the parent path"`},
	{"$." + longName + "[0]", `"Value for attribute name with 255 characters with subscript excluding the parent path"`},
}

var updates = []update{
	{"$.title", `"root0"`},
	{"$.pictures.rearView", `"root1.level1"`},
	{"$.color[0]", `"Blue"`},
	{"$.relatedItems[1]", `1000`},
	{"$.productReview.oneStar[0]", `"Never again!"`},
	{`$["Safety.Warning"]`, `"Value for attribute with DOT"`},
}

func parse(t *testing.T, src string) document.Node {
	t.Helper()
	n, err := document.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return n
}

func apply(t *testing.T, doc document.Node, ups []update) document.Node {
	t.Helper()
	for _, u := range ups {
		var err error
		doc, err = doc.With(document.MustParsePath(u.path), parse(t, u.value))
		if err != nil {
			t.Fatalf("apply %s: %v", u.path, err)
		}
	}
	return doc
}
