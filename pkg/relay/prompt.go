package relay

import (
	"fmt"

	"github.com/rhuss/searelay/pkg/api"
)

// koreanPersona is the persona served to the Korean-language frontend.
const koreanPersona = "당신은 해양 전문 AI 어시스턴트입니다. " +
	"해양 기상, 해상 안전, 해양 환경, 해양 생물 등 해양 관련 질문에 대해 " +
	"정확하고 도움이 되는 답변을 제공해주세요. 한국어로 답변해주세요."

const personaTemplate = "You are a maritime AI assistant. You answer questions about " +
	"marine weather, maritime safety, the marine environment and marine life " +
	"with accurate and helpful answers. Always answer in %s."

// PersonaPrompt returns the system instruction for the given answer
// language. An empty language selects DefaultLanguage.
func PersonaPrompt(language string) string {
	if language == "" || language == DefaultLanguage {
		return koreanPersona
	}
	return fmt.Sprintf(personaTemplate, language)
}

// HasSystemMessage reports whether any message in the sequence has the
// system role, regardless of its position.
func HasSystemMessage(messages []api.ChatMessage) bool {
	for _, m := range messages {
		if m.Role == api.RoleSystem {
			return true
		}
	}
	return false
}

// Augment returns the sequence to forward upstream. When no system message
// is present, a new slice is returned with the persona prepended; otherwise
// messages is returned unchanged. The input slice is never modified.
func Augment(messages []api.ChatMessage, persona string) ([]api.ChatMessage, bool) {
	if HasSystemMessage(messages) {
		return messages, false
	}
	out := make([]api.ChatMessage, 0, len(messages)+1)
	out = append(out, api.SystemMessage(persona))
	out = append(out, messages...)
	return out, true
}
