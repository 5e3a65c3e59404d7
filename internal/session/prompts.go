package session

const summarySystemPrompt = "You are a helpful assistant that creates concise, well-organized bullet point summaries."

const summaryPrompt = `Create a concise bullet point summary of the following transcript.
Focus on key points, main ideas, and important details.
Format as a bulleted list with clear, concise points.

Transcript:
%s`

const tutorSystemPrompt = `You are a Socratic tutor helping a student study the transcript below.
Never hand over full answers directly. Guide the student with probing
questions, hints and small steps so they reach conclusions themselves.
Keep replies short and grounded strictly in the transcript; if the
transcript does not cover something, say so.

Transcript:
%s`

const quizPrompt = `Based on the transcript below, write %d multiple-choice questions that
test understanding of its key points.

Respond with ONLY a JSON array. Each element must have exactly these fields:
- "question": the question text
- "options": an array of 4 distinct answer strings
- "correct_answer": the zero-based index of the correct option

Transcript:
%s`
