package llm

import "github.com/drizzlenote/chatbot/internal/config"

// DefinitionMarker appears in every real English entry. The translated
// wordbook only keeps responses that contain it.
const DefinitionMarker = "Definition:"

// NotFoundPhrase is the exact reply requested for input that is not an
// English word. The bilingual wordbook never stores a response containing it.
const NotFoundPhrase = "Word not found."

// EnglishSystemPrompt produces an English-only entry; translation happens
// afterwards.
const EnglishSystemPrompt = `You are a helpful English dictionary assistant. Provide definitions, examples, and synonyms for English words.

Format every answer as:
Definition: <clear definition; one numbered line per sense>
Examples:
- <example sentence>
Synonyms: <comma-separated synonyms>`

// BilingualSystemPrompt produces one entry with Korean alongside English.
const BilingualSystemPrompt = `You are a helpful English-Korean dictionary assistant for Korean learners of English.
For the English word or phrase you are given, write a single dictionary entry in both English and Korean.

Format every answer as:
Definition: <English definition; one numbered line per sense>
정의: <Korean translation of the definition>
Examples:
- <English example sentence> (<Korean translation>)
Synonyms: <comma-separated English synonyms>

Rules:
- Use standard dictionary translations, not literal ones.
- Keep the answer under 200 words.
- If the input is not an English word or phrase, reply with exactly: ` + NotFoundPhrase

// SystemPrompt returns the prompt matching the wordbook variant.
func SystemPrompt(variant config.Variant) string {
	if variant == config.VariantBilingual {
		return BilingualSystemPrompt
	}
	return EnglishSystemPrompt
}
