// Package mood implements the per-character emotional state machine that
// colors group-chat responses.
//
// The engine is a pure function library: DetectTriggers finds emotional
// cues in a user message, Next advances a character's mood through a fixed
// transition table (or decays it when nothing fired), Prompt translates the
// resulting state into a behavioral hint for the LLM without ever naming
// the emotion, and SpeakingModifier feeds the speaking-queue score.
//
// All tables are immutable package-level configuration. ValidateTransitions
// checks their completeness once at startup; after that every operation is
// total and cannot fail.
package mood
