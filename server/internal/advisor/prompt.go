package advisor

import (
	"fmt"
	"strings"

	"github.com/tabtamer/tabtamer/server/internal/report"
)

// BuildPrompt formats the coaching prompt for r. Only the top entries are
// listed.
func BuildPrompt(r report.Report) string {
	var top strings.Builder
	for i, e := range r.Top {
		if i > 0 {
			top.WriteByte('\n')
		}
		fmt.Fprintf(&top, "%s: %d min", e.Title, e.Count)
	}

	return fmt.Sprintf(`Act like a sarcastic productivity coach.
Here’s today’s session:
%s

🧮 Focus Score: %d/100
🧠 Work Time: %d min | 💤 Fun Time: %d min

Now:
🧹 List tabs to close
🧠 List tabs to keep
💡 Give a short motivational tip
🎯 Suggest 1 task they should do next
Keep it cheeky, concise, and formatted with emojis.`,
		top.String(), r.FocusScore, r.WorkTime, r.FunTime)
}
