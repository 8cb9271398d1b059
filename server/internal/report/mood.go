package report

// Mood is the qualitative label attached to a report.
type Mood string

const (
	MoodEnergized  Mood = "energized"
	MoodDistracted Mood = "distracted"
	MoodSteady     Mood = "steady"
	MoodIdle       Mood = "idle"
	MoodNeutral    Mood = "neutral"
)

// Thresholds for the mood rules.
const (
	energizedMinScore  = 80
	energizedMaxTotal  = 45 // exclusive
	distractedMaxScore = 40 // exclusive
	distractedMinTotal = 60 // exclusive
	steadyMinScore     = 50
	steadyMaxScore     = 70
)

// MoodFor applies the mood rules in order; the first match wins.
func MoodFor(score, total int) Mood {
	switch {
	case score >= energizedMinScore && total < energizedMaxTotal:
		return MoodEnergized
	case score < distractedMaxScore && total > distractedMinTotal:
		return MoodDistracted
	case score >= steadyMinScore && score <= steadyMaxScore:
		return MoodSteady
	case score == 0:
		return MoodIdle
	default:
		return MoodNeutral
	}
}

// Advice is the one-line message shown in the mood box.
func (m Mood) Advice() string {
	switch m {
	case MoodEnergized:
		return "💪 Super focused! Ride the wave."
	case MoodDistracted:
		return "😵‍💫 Distracted and fatigued. Netflix break time?"
	case MoodSteady:
		return "🧘‍♀️ Solid focus. Don’t forget to blink."
	case MoodIdle:
		return "😴 Wake up, tab zombie. Close YouTube maybe?"
	default:
		return "😐 Keep it steady. You’re doing okay."
	}
}
