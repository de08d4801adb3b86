package service

import "dossier-be/internal/entity"

const generalExtractionPrompt = `You are a legal assistant specialised in litigation. Analyse the text below and extract EVERY relevant fact and event.
Reply **only** with JSON of the form {"facts": [...]}. Each fact must follow exactly this structure:

{
  "event_date": "YYYY-MM-DD",
  "description": "Short description of the event.",
  "actors": "Person A, Company B",
  "event_type": "Email / Meeting / Letter / Notification"
}

When a date is uncertain use null. Do not invent anything, only extract.`

const publicProcurementExtractionPrompt = `You are a legal assistant **specialised in public procurement**. Analyse the text below and extract the key facts of this dispute.
Reply **only** with JSON of the form {"facts": [...]}. Keep exactly this structure:

{
  "event_date": "YYYY-MM-DD",
  "description": "Specific description (e.g. rejection of [Company]'s bid on ground [X], publication of the contract notice, notification of the award decision)",
  "actors": "Contracting authority, Bidder, Competitor",
  "event_type": "Contract notice / Submission / Negotiation / Rejection / Award / Interim relief"
}

Focus on key dates, grounds for rejection, the parties involved and the procedural steps.
When a date is uncertain use null. Do not invent anything, only extract.`

const extractionUserPrefix = "Here is the text to analyse:\n\n"

func extractionPromptFor(category string) string {
	if category == entity.CategoryPublicProcurement {
		return publicProcurementExtractionPrompt
	}
	return generalExtractionPrompt
}

const noContextFound = "No relevant information was found."

const retrievalPromptTemplate = `You are a legal assistant. Answer the lawyer's question using **only** the context below, taken from the documents of the case file.
If the context does not contain the answer, say "I cannot find this information in the documents."

CONTEXT:
%s
`
