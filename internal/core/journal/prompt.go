// Package journal builds generation prompts and turns loosely formatted model
// output into journal entries.
package journal

import (
	"fmt"

	"github.com/ewilliams-labs/aestheticify/internal/core/domain"
)

const promptTemplate = `Create a creative journal entry with a title based on this vibe:

- Pet: %s
- Font: %s
- Background: %s
- Quote: "%s"

First, generate a short, evocative title that captures the essence of the journal entry.
Then, write a dreamlike, surreal, and poetic journal entry under 60 words.
Finally, suggest one fitting song for this vibe.

Format your response exactly like this:
**Title:** [Your generated title]
**Journal Entry:** [Your journal entry text]
**Song:** [song name] by [artist]`

// BuildPrompt renders the generation prompt for v.
func BuildPrompt(v domain.Vibe) string {
	return fmt.Sprintf(promptTemplate, v.Pet, v.Font, v.Background, v.Quote)
}
