package sections

// Copy shown when content is missing or a request fails.
var (
	DefaultBio = "Full-stack developer focused on building scalable and beautiful web applications."

	PlaceholderImage = "https://via.placeholder.com/500"

	NoExperience = "No experience data found."

	NoTestimonials = "Testimonials will appear here once added from the CMS."

	AnonymousClient = "Anonymous Client"

	NoFeedback = "No feedback provided."

	DefaultPosition = "Professional"

	ContactSuccess = "Message sent successfully!"

	ContactError = "Something went wrong. Please try again."
)
