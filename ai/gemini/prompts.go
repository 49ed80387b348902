package gemini

import (
	"fmt"
	"strings"

	"github.com/xentrohq/docvault/ai"
)

// Input ceilings per operation, in characters. Truncation is silent
// and lossy for very long documents; the analysis prompt keeps the
// largest window since it feeds the stored summary.
const (
	analyzeInputLimit      = 60000
	mathInputLimit         = 6000
	auditInputLimit        = 10000
	auditHistoryInputLimit = 5000
)

const analyzePromptTemplate = `You are a Senior Document Intelligence Engine.
Your goal is to extract structured, actionable data from business documents with 100%% precision.

--- PHASE 1: CLASSIFICATION ---
Determine the document type from these categories:
[%s]

--- PHASE 2: EXTRACTION RULES ---
Based on the classified type, extract the following specific fields:

A. IF INVOICE / RECEIPT:
   - Vendor Name, Invoice Number, Invoice Date, Due Date
   - Subtotal, Tax Amount, Total Amount (with currency)
   - Line Items (Summarized list of what was bought)

B. IF CONTRACT / LEGAL:
   - Contract Title, Effective Date, Expiration Date
   - Parties Involved (List of companies/people)
   - Contract Value (if mentioned)
   - Key Clauses (Liability, Termination, Payment Terms)

C. IF BANK STATEMENT / FINANCIAL:
   - Bank Name, Account Holder, Period (Start-End)
   - Opening Balance, Closing Balance
   - Total Deposits, Total Withdrawals

D. IF RESUME / CV:
   - Candidate Name, Email, Phone
   - Top 5 Skills, Years of Experience
   - Most Recent Job Title & Company

E. IF OTHER:
   - Author/Sender, Subject/Title, Key Topics, Dates mentioned

--- PHASE 3: METADATA ---
- Language: Detect the document language (en, de, fr, etc.)
- Confidence: Rate your extraction confidence (0-100%%).
- Summary: Write a professional executive summary (2 sentences).

--- INPUT TEXT ---
%s

--- REQUIRED OUTPUT FORMAT (Strict JSON) ---
{
    "type": "CATEGORY_NAME",
    "language": "ISO_CODE",
    "confidence_score": 95,
    "vendor": "String or null",
    "date": "YYYY-MM-DD or null",
    "total_amount": "String or null",
    "currency": "String or null",
    "parties": ["Name 1", "Name 2"],
    "specific_data": {
        "invoice_number": "...",
        "tax": "...",
        "skills": "...",
        "clauses": "..."
    },
    "summary": "Executive summary string..."
}`

const mathPromptTemplate = `You are a Forensic Math Auditor.
Analyze the document text to find financial components and verify the arithmetic.

CRITICAL RULES:
1. The text is raw extraction. IGNORE formatting artifacts.
2. Find values for: Subtotal, Discount, Tax, Shipping, Total.
3. If a number has a comma (e.g. "4,941.60"), read it as 4941.60.
4. Discount is a NEGATIVE value (subtract it).
5. Shipping and Tax are POSITIVE values (add them).

TASK:
1. Extract the financial values (Use 0.00 if not found).
2. Calculate: Expected = Subtotal - Discount + Tax + Shipping.
3. Compare Expected vs Found Total.

INPUT TEXT:
%s

OUTPUT JSON ONLY:
{
    "found_subtotal": 0.00,
    "found_discount": 0.00,
    "found_tax": 0.00,
    "found_shipping": 0.00,
    "found_total": 0.00,
    "calculated_total": 0.00,
    "is_math_correct": true,
    "explanation": "Brief summary of the math check."
}`

const auditPromptTemplate = `You are a Forensic Accountant AI.
Compare the CURRENT INVOICE against the HISTORICAL DATA for this vendor.

--- CURRENT INVOICE CONTENT ---
%s

--- VENDOR HISTORY ---
%s

TASK:
1. Check for Price Anomalies (Is this bill significantly higher than average?).
2. Check for Risk (Does the layout or terms look suspicious compared to history?).
3. If no history exists, mark as "New Vendor Risk".

OUTPUT JSON ONLY:
{
    "risk_score": 85,
    "risk_level": "HIGH / MEDIUM / LOW",
    "flags": ["Flag 1", "Flag 2"],
    "recommendation": "Approve / Reject / Audit"
}`

const redactPromptTemplate = `You are a GDPR Compliance Officer.
Analyze the JSON data below and REDACT all Personally Identifiable Information (PII).

RULES:
1. Replace specific Person Names with "[REDACTED_NAME]".
2. Replace Phone Numbers/Emails with "[REDACTED_CONTACT]".
3. Replace IBANs/Account Numbers with "[REDACTED_BANK]".
4. KEEP the Vendor Name, Dates, and Totals visible (Business data is public).
5. Return the modified JSON structure exactly.

--- INPUT JSON ---
%s`

const chatPromptTemplate = `You are a Knowledge Assistant for business documents.
Answer the question based on the provided Context.

RULES:
1. Use facts from the Context strictly (Totals, Dates, Names).
2. ALLOW INFERENCE: If the user asks for a Country/Region and only a City is found (e.g., Lahore, London), you MAY infer the Country.
3. DATE CHECK: If a date seems to be far in the future, check if it's likely an OCR error for a current year and mention it.
4. If the answer is completely missing, say "Information not found."

--- CONTEXT ---
%s

--- QUESTION ---
%s`

// buildAnalyzePrompt renders the classification/extraction prompt with
// the category list and the (already truncated) document text.
func buildAnalyzePrompt(text string) string {
	return fmt.Sprintf(analyzePromptTemplate, strings.Join(ai.DocumentTypes, ", "), text)
}
