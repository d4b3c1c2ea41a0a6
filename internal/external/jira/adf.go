package jira

// Minimal Atlassian Document Format shapes for comment bodies.

type adfDoc struct {
	Version int       `json:"version"`
	Type    string    `json:"type"`
	Content []adfNode `json:"content"`
}

type adfNode struct {
	Type    string    `json:"type"`
	Text    string    `json:"text,omitempty"`
	Marks   []adfMark `json:"marks,omitempty"`
	Content []adfNode `json:"content,omitempty"`
}

type adfMark struct {
	Type  string                 `json:"type"`
	Attrs map[string]interface{} `json:"attrs,omitempty"`
}

func newADFDoc(content ...adfNode) adfDoc {
	return adfDoc{Version: 1, Type: "doc", Content: content}
}

func adfParagraph(text string) adfNode {
	return adfNode{
		Type:    "paragraph",
		Content: []adfNode{{Type: "text", Text: text}},
	}
}

func adfLinkParagraph(text, href string) adfNode {
	return adfNode{
		Type: "paragraph",
		Content: []adfNode{{
			Type: "text",
			Text: text,
			Marks: []adfMark{{
				Type:  "link",
				Attrs: map[string]interface{}{"href": href},
			}},
		}},
	}
}
