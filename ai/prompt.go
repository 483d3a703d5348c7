package ai

import "strings"

// BuildPrompt flattens resolved history plus the new prompt into the text
// sent upstream. With no history the prompt passes through unchanged;
// otherwise each turn renders as "User: ..." or "Assistant: ...", turns are
// joined by blank lines, and the new prompt is appended as a final User
// turn. History is concatenated in full, with no truncation or windowing.
func BuildPrompt(prompt string, history []Turn) string {
	if len(history) == 0 {
		return prompt
	}

	lines := make([]string, 0, len(history))
	for _, turn := range history {
		speaker := "Assistant"
		if turn.Role == "user" {
			speaker = "User"
		}
		lines = append(lines, speaker+": "+turn.Content)
	}

	return strings.Join(lines, "\n\n") + "\n\nUser: " + prompt
}
