package generation

import (
	"fmt"
	"strings"

	"github.com/abhisek/drillsergeant/internal/content"
)

const systemPrompt = `You are a GRE exam content writer producing Reading Comprehension practice sets.

Rules:
- Write one original academic passage in the style of the GRE (humanities, social science, or natural science).
- Write the requested number of multiple-choice questions about the passage.
- Each question has five options labelled A through E with exactly one correct answer.
- Wrong options must be plausible GRE traps: out of scope, distortion, extreme language, true but irrelevant, or reversal.
- The correct answer must be supported by the passage text alone.
- Vary which label holds the correct answer across questions.
- Output valid JSON only.`

// difficultyGuide describes each level to the model.
var difficultyGuide = map[content.Difficulty]string{
	content.Beginner:     "Accessible vocabulary, one clear argument, questions on main idea and explicit detail.",
	content.Intermediate: "Denser prose with a counter-argument, questions on inference and author's attitude.",
	content.Advanced:     "Abstract argument with several viewpoints, questions on structure, inference and weakening.",
}

func buildUserMessage(difficulty content.Difficulty, questions int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Difficulty: %s\n", difficulty)
	if guide, ok := difficultyGuide[difficulty]; ok {
		fmt.Fprintf(&b, "Guidance: %s\n", guide)
	}
	fmt.Fprintf(&b, "Number of questions: %d\n", questions)
	b.WriteString("Number the questions 1, 2, 3 in order.")
	return b.String()
}
