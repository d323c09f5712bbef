package mood

import "github.com/ccalde29/CHAIT-world-sub001/types"

// Intensity thresholds for prompt selection. Below PromptThreshold a
// neutral character gets no behavioral hint at all; above StrongThreshold
// the strong variant of the hint is used.
const (
	PromptThreshold = 0.6
	StrongThreshold = 0.7
)

// hintSet holds the two behavioral-hint variants for one mood. The text
// steers tone, brevity and physical-action cues without ever naming the
// emotion itself, so the model shows the state instead of announcing it.
type hintSet struct {
	moderate string
	strong   string
}

var hints = map[types.Mood]hintSet{
	types.MoodNeutral: {
		moderate: "Keep an even, measured tone. Answer plainly and don't volunteer strong opinions unless asked.",
		strong:   "Stay deliberately composed. Speak in short, level sentences and let others fill the silence.",
	},
	types.MoodExcited: {
		moderate: "Let extra energy slip into your reply. Use the occasional exclamation, offer to say more, lean into the topic.",
		strong:   "You can barely sit still. Jump in fast, stack ideas on top of each other, gesture while you talk, and don't worry about finishing every sentence cleanly.",
	},
	types.MoodContent: {
		moderate: "Reply warmly and unhurriedly. Small agreeable asides and a relaxed posture fit the moment.",
		strong:   "Everything feels easy right now. Be generous, settle back, smile between sentences, and take your time.",
	},
	types.MoodAnnoyed: {
		moderate: "Keep replies a little shorter and drier than usual. Let a clipped edge show in your word choice.",
		strong:   "Answer curtly. One or two terse sentences, maybe a pointed sigh or a look away, and no effort to smooth things over.",
	},
	types.MoodDefensive: {
		moderate: "Qualify your statements and justify your position before anyone asks you to. Cross your arms if it helps.",
		strong:   "Treat questions as challenges. Push back immediately, restate your side firmly, and concede nothing without a fight.",
	},
	types.MoodSad: {
		moderate: "Slow down. Shorter sentences, softer word choice, a pause before you answer.",
		strong:   "Words come with effort. Trail off mid-thought, look down, keep replies brief and quiet, and skip any forced cheerfulness.",
	},
}

// Prompt renders the behavioral hint for a character's current mood. A
// near-resting neutral state produces no hint at all, keeping the prompt
// budget for characters whose state is actually worth steering.
func Prompt(m types.Mood, intensity float64, c types.Character) string {
	intensity = clamp01(intensity)
	if m == types.MoodNeutral && intensity < PromptThreshold {
		return ""
	}
	set, ok := hints[m]
	if !ok {
		return ""
	}
	hint := set.moderate
	if intensity > StrongThreshold {
		hint = set.strong
	}
	return "Behavioral note for " + c.Name + ": " + hint
}
