package resolver

import "pc-setup-agent/internal/domain/entity"

// ExtractText returns the plain text carried by content. Strings are
// returned unchanged; block lists yield the text of the first "text"
// block. Every other shape yields "".
func ExtractText(content any) string {
	switch c := content.(type) {
	case string:
		return c
	case []entity.ContentBlock:
		for _, block := range c {
			if block.Type == entity.ContentTypeText {
				return block.Text
			}
		}
	case []map[string]any:
		for _, block := range c {
			if text, ok := textOfBlock(block); ok {
				return text
			}
		}
	case []any:
		for _, item := range c {
			block, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if text, ok := textOfBlock(block); ok {
				return text
			}
		}
	}
	return ""
}

func textOfBlock(block map[string]any) (string, bool) {
	if block["type"] != string(entity.ContentTypeText) {
		return "", false
	}
	text, _ := block["text"].(string)
	return text, true
}

// MessageText prefers the typed blocks of msg and falls back to its plain
// content.
func MessageText(msg entity.Message) string {
	if len(msg.ContentBlocks) > 0 {
		return ExtractText(msg.ContentBlocks)
	}
	return ExtractText(msg.Content)
}
