package llm

import (
	"fmt"
	"strings"
)

const emotionSystemPrompt = `You classify the emotional state of a speaker. Return STRICT JSON ONLY.
Output a single JSON object with these keys:
- primary_emotion: one of happy, excited, calm, sad, angry, anxious, neutral
- confidence: number 0.0-1.0, how sure you are about primary_emotion
- intensity: number 0.0-1.0, how strongly the emotion is expressed
- secondary_emotions: array of up to 2 labels from the same list
- reasoning: one short sentence
No markdown. No extra keys.`

const emotionUserFormat = "Text to analyze:\n%s"

const companionSystemPrompt = "You are a warm voice companion. Reply in two or three short spoken sentences, in the same language the user writes in. Never mention that you are analyzing emotions."

// companionTones maps an emotion to the tone the reply should take.
var companionTones = map[string]string{
	"sad":     "Be gentle and comforting. Acknowledge the feeling before offering hope.",
	"anxious": "Be calm and grounding. Suggest one small, concrete step.",
	"angry":   "Stay steady and non-judgmental. Let the user feel heard.",
	"happy":   "Share the joy with light, upbeat energy.",
	"excited": "Match the energy and encourage the user to channel it into something creative.",
	"calm":    "Keep a relaxed, thoughtful pace.",
	"neutral": "Be friendly and attentive.",
}

func buildCompanionSystemPrompt(emotion string) string {
	tone, ok := companionTones[strings.ToLower(strings.TrimSpace(emotion))]
	if !ok {
		tone = companionTones[fallbackEmotion]
	}

	return companionSystemPrompt + " " + tone
}

func buildEmotionUserPrompt(text string) string {
	return fmt.Sprintf(emotionUserFormat, text)
}
