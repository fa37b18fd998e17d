package content

// AboutInfo is the singleton biography record.
type AboutInfo struct {
	Bio      string `json:"bio"`
	ImageURL string `json:"image_url"`
}

type Skill struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	LiveLink    string `json:"live_link,omitempty"`
	GithubLink  string `json:"github_link,omitempty"`
}

// BlogPost content is newline-significant and must be displayed verbatim.
type BlogPost struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
}

type ExperienceEntry struct {
	Duration    string `json:"duration"`
	Role        string `json:"role"`
	Company     string `json:"company"`
	Description string `json:"description"`
}

// Testimonial fields are all optional; fallbacks are applied at render time.
type Testimonial struct {
	Feedback string `json:"feedback,omitempty"`
	Name     string `json:"name,omitempty"`
	Position string `json:"position,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// ContactMessage is the payload posted to the backend's contact endpoint.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Content holds the six content slots of the portfolio.
type Content struct {
	About        AboutInfo
	Skills       []Skill
	Projects     []Project
	Experience   []ExperienceEntry
	Blogs        []BlogPost
	Testimonials []Testimonial
}

// Empty returns content with every slot set to its empty default.
func Empty() Content {
	return Content{}.Normalize()
}

// Normalize replaces nil lists with empty ones so no slot is left unset.
func (c Content) Normalize() Content {
	if c.Skills == nil {
		c.Skills = []Skill{}
	}
	if c.Projects == nil {
		c.Projects = []Project{}
	}
	if c.Experience == nil {
		c.Experience = []ExperienceEntry{}
	}
	if c.Blogs == nil {
		c.Blogs = []BlogPost{}
	}
	if c.Testimonials == nil {
		c.Testimonials = []Testimonial{}
	}
	return c
}
