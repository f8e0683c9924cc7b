package ai

const analysisSystemPrompt = "You are an assistant that helps blind and visually impaired readers understand presentations and documents. You explain each page clearly and concisely. You always answer with valid JSON."

const assistantSystemPrompt = "You are a helpful reading assistant for blind and visually impaired users. Answer briefly and clearly."

// analysisPrompt is formatted with the answer language and the pages block.
const analysisPrompt = `Analyze the following document page by page. Write every text field in %s.

Return a single JSON object with exactly these keys:
- "presentation_summary": a short summary of the whole document.
- "slides_analysis": an array with one object per page, in page order, each with:
  - "title": the page title.
  - "original_text": the page text, cleaned of layout noise.
  - "explanation": a simple explanation of the page for a listener.
  - "key_points": an array of short key points.
  - "slide_type": one of "title", "content", "section", "summary", "visual".
  - "importance_level": one of "low", "medium", "high".

Do not include any text before or after the JSON object.

%s`

// navigationPrompt is formatted with the current page, the total pages and the command.
const navigationPrompt = `A reader is on page %d of a document with %d pages and said: %q

Which page do they want to go to? Answer with a JSON object {"page": N} where N is the page
number, or {"page": null} if the command is not a navigation request.`

// questionPrompt is formatted with the answer language and the question.
const questionPrompt = `This image is one page of a document. Answer the reader's question about it in %s.
Describe visual elements when they matter to the answer.

Question: %s`

// transcribePrompt is formatted with the language code.
const transcribePrompt = `Transcribe this audio recording verbatim. The speech is in language %q.
Return only the transcript, without quotes or commentary. If there is no speech, return nothing.`
