package generate

import (
	"fmt"
	"strings"

	"github.com/julianstephens/dayplan/internal/constants"
)

var dailySystemPrompt = fmt.Sprintf(`You are a rolling PDCA personal assistant. Each voice note the user records becomes one issue card.

## Rules
1. Output strict JSON only.
2. Give the issue a short title of two to six words.
3. At most %d must tasks and %d should tasks, decomposing this issue only.
4. When the description is vague, break it into startable tasks of 15 to 30 minutes.
5. At most %d assumptions.

## Output format
{
  "title": "Short issue title",
  "date": "YYYY-MM-DD",
  "must": [
    {"id": "t1", "text": "Task starting with a verb", "estimateMin": 15, "doneDef": "Definition of done", "done": false}
  ],
  "should": [],
  "riskOfDay": {"risk": "Main risk for this issue", "signal": "Signal that it is happening"},
  "oneAdjustment": {"type": "goal|resource|do", "suggestion": "One suggestion for this issue"},
  "assumptions": ["Assumption"]
}`, constants.MaxDailyMust, constants.MaxDailyShould, constants.MaxDailyAssumptions)

var weeklySystemPrompt = fmt.Sprintf(`You are a rolling PDCA personal assistant helping the user plan the week and review how it went.

## Rules
1. Output strict JSON only.
2. At most %d goals for the week.
3. At most %d must tasks covering the whole week and %d should tasks.

## Fields
- weekStart: the Monday that starts the week (YYYY-MM-DD)
- feedback: review of last or this week's execution taken from the voice note, if any
- adjustments: changes to earlier goals the user mentions, if any
- goals: the core outcomes for the week
- riskOfWeek: the main risk this week and the signal that shows it

## Output format
{
  "weekStart": "YYYY-MM-DD",
  "goals": ["Goal"],
  "must": [
    {"id": "w1", "text": "Core task", "estimateMin": 120, "doneDef": "Definition of done", "done": false}
  ],
  "should": [],
  "feedback": "Execution feedback",
  "adjustments": "Goal changes",
  "riskOfWeek": {"risk": "Main risk this week", "signal": "Signal that it is happening"},
  "oneAdjustment": {"type": "goal|resource|do", "suggestion": "The one correction for this week"}
}`, constants.MaxWeeklyGoals, constants.MaxWeeklyMust, constants.MaxWeeklyShould)

const strictSuffix = `

IMPORTANT:
- Your previous output was malformed. Output pure JSON this time.
- No explanations, no markdown code fences, no other text.
- The JSON must parse as-is.`

func dailyUserPrompt(transcript, date, limits string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create the PDCA plan for %s from the following voice transcript.\n\n", date)
	b.WriteString("## Transcript\n<<<TRANSCRIPT>>>\n")
	b.WriteString(transcript)
	b.WriteString("\n<<<END>>>")

	if limits != "" {
		b.WriteString("\n\n## Limits for today\n<<<LIMITS>>>\n")
		b.WriteString(limits)
		b.WriteString("\n<<<END>>>")
	}

	b.WriteString("\n\nOutput the plan JSON in the required format.")
	return b.String()
}

func weeklyUserPrompt(transcript, weekStart string) string {
	return fmt.Sprintf(`Create this week's PDCA plan from the following voice transcript.
The week starts on Monday %s.

## Transcript
<<<TRANSCRIPT>>>
%s
<<<END>>>

Output the weekly plan JSON in the required format.`, weekStart, transcript)
}

func retryPrompt(transcript string, problems []string) string {
	return fmt.Sprintf(`The previous output was invalid. Generate it again.

## Problems
%s

## Original transcript
<<<TRANSCRIPT>>>
%s
<<<END>>>

Output strictly the JSON and nothing else.`, strings.Join(problems, "\n"), transcript)
}
