package kson_test

import (
	"fmt"

	"github.com/reoring/kson"
)

func ExampleEngine_Stringify() {
	e := kson.New()
	_ = e.AddSchema(`[
		{"id": "post", "fields": ["title", "state", "tags"], "meta": [0, "enum:draft:published", "[]"]}
	]`)

	raw, err := e.Stringify(map[string]any{
		"title": "hello",
		"state": "published",
		"tags":  []any{"go", "json"},
	}, "post")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(string(raw))
	// Output: ["post","hello",1,["go","json"]]
}

func ExampleEngine_Parse() {
	e := kson.New()
	_ = e.AddSchemas(
		kson.Schema{ID: "thread", Fields: []string{"title", "replies"}, Meta: []kson.Meta{"", "[]thread"}},
	)

	v, err := e.Parse([]byte(`["thread","root",["re: root",[],"re: root (2)",[]]]`))
	if err != nil {
		fmt.Println(err)
		return
	}
	root := v.(map[string]any)
	for _, r := range root["replies"].([]any) {
		fmt.Println(r.(map[string]any)["title"])
	}
	// Output:
	// re: root
	// re: root (2)
}
