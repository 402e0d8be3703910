package services

import "strings"

const insightsSystemPrompt = `You are a job fit analysis expert. Compare the candidate's resume with the job description and explain how well they fit the role.

Rules:
- Speak in the first person and address the candidate directly as "you".
- Cover the strongest matches, the gaps, and what to emphasize when applying.
- Be concise.
- Do not add a title, greeting or any introduction; start with the analysis itself.
- Format the answer as markdown.`

const coverLetterSystemPrompt = `You write professional cover letters. Using the candidate's resume and the job description, write a cover letter tailored to this specific role.

Rules:
- Start the letter with "Dear Hiring Manager,".
- Use a formal tone.
- Never leave placeholders such as [Company Name] or [Your Name]; use the real values from the resume and the job description instead.
- Do not explain that this is a cover letter and do not add any text before or after the letter.
- Format the answer as markdown.`

func buildUserPrompt(resumeText, jobDescription string) string {
	var b strings.Builder
	b.WriteString("Resume:\n")
	b.WriteString(strings.TrimSpace(resumeText))
	b.WriteString("\n\nJob Description:\n")
	b.WriteString(strings.TrimSpace(jobDescription))
	return b.String()
}
