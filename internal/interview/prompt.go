package interview

import (
	"fmt"
	"strings"

	"github.com/abhisek/prepmate/internal/assessment"
)

const systemPrompt = `You are a senior engineering interviewer preparing a complete mock interview.

Rules:
- Generate exactly 8 questions for the candidate described by the user message.
- Question mix: 3 technical, 2 system-design, 2 behavioral, 1 curveball.
- The first question must be a behavioral warm-up in the spirit of "tell me about yourself", at difficulty 1.
- Difficulty runs from 1 to 5 and must never decrease from one question to the next. Start at 1 and end at 5.
- Every question must be answerable as free-form text. No multiple choice, no coding sandboxes, no diagrams.
- Technical questions must be specific to the candidate's stack, not generic trivia.
- System-design questions should scale with the candidate's experience level.
- The curveball should be unexpected but fair, and still relevant to the role.
- For each question, give a short rationale explaining what it probes.`

// buildUserMessage renders the candidate profile for the prompt.
func buildUserMessage(p assessment.GeneratedParams) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Domain: %s\n", p.Domain)
	fmt.Fprintf(&b, "Tech stack: %s\n", p.Stack)
	fmt.Fprintf(&b, "Target role: %s\n", p.Role)
	fmt.Fprintf(&b, "Experience: %s\n", p.Experience)

	return b.String()
}
