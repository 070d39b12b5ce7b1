package coach

import (
	"fmt"
	"strings"
	"time"
)

const systemPrompt = `You are a tough GRE drill sergeant. A learner just finished a reading-comprehension drill. Write a short, blunt, motivating message. Praise real progress, call out the traps they keep falling for, and tell them what to drill next. Output valid JSON only.`

func buildUserMessage(req Request, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Original score: %s\n", orNone(req.OriginalScore))
	fmt.Fprintf(&b, "Final mastery after retries: %s\n", orNone(req.FinalMastery))

	b.WriteString("\nTraps identified:\n")
	if len(req.TrapsIdentified) == 0 {
		b.WriteString("None\n")
	} else {
		for _, t := range req.TrapsIdentified {
			fmt.Fprintf(&b, "- %s\n", t)
		}
	}

	if !req.ExamDate.IsZero() {
		fmt.Fprintf(&b, "\nExam date: %s", req.ExamDate.Format(time.DateOnly))
		if days := daysUntil(now, req.ExamDate); days >= 0 {
			fmt.Fprintf(&b, " (%d days away)", days)
		}
		b.WriteString("\n")
	}

	b.WriteString(`
Instructions:
1. The headline is 2-6 words.
2. The body is 2-3 sentences. Mention the exam date if one is given.
3. Do not use emoji or markdown.`)

	return b.String()
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}

func daysUntil(now, date time.Time) int {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	y, m, d = date.Date()
	target := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(target.Sub(today).Hours() / 24)
}
