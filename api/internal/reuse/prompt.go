package reuse

// Prompt asks for a fixed numbered list so ParseIdeas can split it.
const Prompt = "You are ReUSEAI. Analyze this item and return exactly 3 short reuse ideas " +
	"in one line each. Format like:\n" +
	"1. ...\n2. ...\n3. ...\n"

// MaxIdeas is the number of ideas returned to the caller.
const MaxIdeas = 3
