package essay

import "fmt"

const (
	DefaultStyle  = "academic"
	DefaultLength = "medium"
)

const WriterInstruction = "You are an expert essay writer. Write comprehensive, well-structured essays on any topic."

const EditorInstruction = "You are an expert essay editor. Refine and improve essays based on user instructions."

var wordCounts = map[string]int{
	"short":  250,
	"medium": 500,
	"long":   1000,
}

var stylePrompts = map[string]string{
	"academic": `Write a well-researched academic essay about "%s". Use formal language, include citations where appropriate, and maintain an objective tone. The essay should be approximately %d words.`,
	"creative": `Write a creative and engaging essay about "%s". Use vivid language, storytelling techniques, and make it interesting to read. The essay should be approximately %d words.`,
	"simple":   `Write a simple and easy-to-understand essay about "%s". Use clear language that anyone can understand. Avoid jargon. The essay should be approximately %d words.`,
	"formal":   `Write a formal essay about "%s". Use professional language and maintain a serious, authoritative tone throughout. The essay should be approximately %d words.`,
}

// WordCount returns the target length; unknown values count as medium.
func WordCount(length string) int {
	if n, ok := wordCounts[length]; ok {
		return n
	}
	return wordCounts[DefaultLength]
}

// GeneratePrompt builds the user prompt. Unknown styles fall back to academic.
func GeneratePrompt(topic, style, length string) string {
	tmpl, ok := stylePrompts[style]
	if !ok {
		tmpl = stylePrompts[DefaultStyle]
	}
	return fmt.Sprintf(tmpl, topic, WordCount(length))
}

func RefinePrompt(essay, instructions string) string {
	return fmt.Sprintf("Here is an essay:\n\n%s\n\nPlease refine it based on these instructions: %s", essay, instructions)
}
