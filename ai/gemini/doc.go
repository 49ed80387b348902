// Package gemini implements the ai interfaces over the hosted Gemini
// API via langchaingo. Analysis prompts request strict JSON replies;
// fences are stripped and common JSON damage repaired before decoding,
// and every operation degrades to a sentinel value instead of
// returning an error.
package gemini
