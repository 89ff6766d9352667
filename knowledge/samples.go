package knowledge

// SampleDocuments returns the documents seeded into an empty store.
func SampleDocuments() []Document {
	return []Document{
		{
			ID: "doc_1",
			Text: "The Great Wall of China is one of the most impressive architectural feats in human history. " +
				"Built over many centuries, it spans approximately 13,000 miles across northern China.",
			Metadata: map[string]string{"topic": "history", "region": "Asia"},
		},
		{
			ID: "doc_2",
			Text: "Python is a high-level programming language known for its simplicity and readability. " +
				"It's widely used in data science, web development, and artificial intelligence.",
			Metadata: map[string]string{"topic": "technology", "subject": "programming"},
		},
		{
			ID: "doc_3",
			Text: "Climate change refers to long-term shifts in global temperatures and weather patterns. " +
				"It's primarily driven by human activities that increase greenhouse gas emissions.",
			Metadata: map[string]string{"topic": "environment", "subject": "climate"},
		},
		{
			ID: "doc_4",
			Text: "Machine learning is a subset of artificial intelligence that enables systems to learn from data. " +
				"It powers modern applications like recommendation systems, autonomous vehicles, and medical diagnostics.",
			Metadata: map[string]string{"topic": "technology", "subject": "AI"},
		},
		{
			ID: "doc_5",
			Text: "The Renaissance was a cultural movement spanning the 14th to 17th centuries that marked the transition " +
				"from medieval to modern Europe, bringing advances in art, science, and philosophy.",
			Metadata: map[string]string{"topic": "history", "period": "Renaissance"},
		},
	}
}
