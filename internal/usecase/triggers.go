package usecase

import (
	"errors"
	"fmt"
	"strings"
)

// ownerPlaceholder is replaced with the portfolio owner's name when a table is
// rendered.
const ownerPlaceholder = "{{owner}}"

// Category maps a set of trigger keywords to one canned response.
type Category struct {
	Key      string
	Triggers []string
	Response string
}

// TriggerTable is scanned in declaration order; the first category with a
// trigger found in the input wins. Order is part of the contract.
type TriggerTable []Category

// Validate checks that keys are unique and triggers are non-empty lowercase
// strings.
func (t TriggerTable) Validate() error {
	if len(t) == 0 {
		return errors.New("usecase: trigger table is empty")
	}
	seen := make(map[string]struct{}, len(t))
	for i, c := range t {
		key := strings.TrimSpace(c.Key)
		if key == "" {
			return fmt.Errorf("usecase: trigger table entry %d has no key", i)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("usecase: duplicate trigger table key %q", key)
		}
		seen[key] = struct{}{}
		if len(c.Triggers) == 0 {
			return fmt.Errorf("usecase: category %q has no triggers", key)
		}
		for _, trig := range c.Triggers {
			if trig == "" || trig != strings.ToLower(trig) {
				return fmt.Errorf("usecase: category %q has invalid trigger %q", key, trig)
			}
		}
		if strings.TrimSpace(c.Response) == "" {
			return fmt.Errorf("usecase: category %q has an empty response", key)
		}
	}
	return nil
}

// Render returns a copy with the owner placeholder filled in.
func (t TriggerTable) Render(owner string) TriggerTable {
	out := make(TriggerTable, len(t))
	for i, c := range t {
		out[i] = Category{
			Key:      c.Key,
			Triggers: append([]string(nil), c.Triggers...),
			Response: strings.ReplaceAll(c.Response, ownerPlaceholder, owner),
		}
	}
	return out
}

// Match returns the first category, in table order, whose trigger occurs as a
// substring of the lower-cased input.
func (t TriggerTable) Match(input string) (Category, bool) {
	lower := strings.ToLower(input)
	for _, c := range t {
		for _, trig := range c.Triggers {
			if strings.Contains(lower, trig) {
				return c, true
			}
		}
	}
	return Category{}, false
}

// Keys lists the category keys in table order.
func (t TriggerTable) Keys() []string {
	keys := make([]string, len(t))
	for i, c := range t {
		keys[i] = c.Key
	}
	return keys
}

// DefaultTriggerTable is the portfolio's stock table, unrendered.
func DefaultTriggerTable() TriggerTable {
	return TriggerTable{
		{
			Key:      "greetings",
			Triggers: []string{"hello", "hi", "hey", "greetings", "good morning", "good afternoon", "good evening"},
			Response: `Hello! 👋 Welcome to {{owner}}'s portfolio! I'm here to help you learn more about their work and skills. What would you like to know?

You can ask me about:
• Experience & Background
• Skills & Technologies
• Projects & Portfolio
• Services Offered
• How to Get in Touch`,
		},
		{
			Key:      "experience",
			Triggers: []string{"experience", "work history", "background", "career", "job", "worked"},
			Response: `{{owner}} has over 5 years of professional experience in web development and design.

📌 Current Role: Senior Frontend Developer at Tech Innovators Inc.
• Leading frontend development team
• Architecting scalable web applications
• Mentoring junior developers

📌 Previous Experience:
• Full Stack Developer at Digital Solutions Agency (2020-2022)
• Junior Developer at StartUp Labs (2018-2020)
• Freelance Developer (2017-2018)

Would you like to know more about any specific role or project?`,
		},
		{
			Key:      "skills",
			Triggers: []string{"skills", "technologies", "tech stack", "programming", "languages", "what can you do", "expertise"},
			Response: `{{owner}} is proficient in a wide range of technologies:

💻 Frontend:
• React.js, Vue.js, Next.js
• JavaScript/TypeScript
• HTML5, CSS3, SASS
• Tailwind CSS, Bootstrap

⚙️ Backend:
• Node.js, Express
• Python, Django
• PostgreSQL, MongoDB
• REST APIs, GraphQL

🛠️ Tools & Others:
• Git, Docker, AWS
• Figma, Adobe XD
• Three.js, GSAP
• CI/CD, Testing

What specific technology would you like to know more about?`,
		},
		{
			Key:      "projects",
			Triggers: []string{"projects", "portfolio", "work", "examples", "showcase", "built", "created"},
			Response: `Here are some notable projects {{owner}} has worked on:

🚀 E-Commerce Platform
Full-stack solution with React, Node.js & MongoDB

🤖 AI Content Generator
Vue.js app with OpenAI integration

📱 Fitness Tracker App
React Native mobile app with AWS backend

🎨 3D Product Showcase
Interactive Three.js & WebGL experience

💼 Banking App Redesign
Complete UI/UX redesign in Figma

Check out the Projects section for live demos and GitHub links!`,
		},
		{
			Key:      "services",
			Triggers: []string{"services", "offer", "help with", "can you", "do you do", "available for"},
			Response: `{{owner}} offers professional services in:

🌐 Web Development
• Custom websites & web applications
• E-commerce solutions
• CMS development
• Performance optimization

🎨 UI/UX Design
• User interface design
• User experience research
• Prototyping & wireframing
• Design systems

📱 Mobile Development
• React Native apps
• Cross-platform solutions
• App optimization

🤖 AI Integration
• Chatbot development
• AI-powered features
• Machine learning integration

Interested in any of these services?`,
		},
		{
			Key:      "hire",
			Triggers: []string{"hire", "contact", "reach", "email", "get in touch", "work with", "available", "freelance"},
			Response: `Great! {{owner}} is currently available for new projects and opportunities! 🎉

📧 Email: hello@alexmorgan.dev
📱 Phone: +1 (234) 567-890
📍 Location: San Francisco, CA

You can also:
• Fill out the contact form on this page
• Connect on LinkedIn
• Check out GitHub for open source work

Response time is typically within 24 hours!`,
		},
		{
			Key:      "pricing",
			Triggers: []string{"price", "cost", "rate", "budget", "charge", "fee", "how much"},
			Response: `Project pricing depends on scope and complexity. Here are typical ranges:

💡 Simple Website: $2,000 - $5,000
🌐 Web Application: $5,000 - $15,000
📱 Mobile App: $10,000 - $30,000
🎨 UI/UX Design: $1,500 - $5,000

For custom quotes, please:
1. Describe your project in the contact form
2. Select your budget range
3. Include timeline requirements

{{owner}} offers free initial consultations!`,
		},
		{
			Key:      "location",
			Triggers: []string{"location", "where", "based", "remote", "timezone", "country"},
			Response: `{{owner}} is based in San Francisco, CA (PST timezone) but works with clients globally!

🌍 Remote Work: Yes, fully remote-capable
⏰ Availability: Flexible hours for different timezones
💬 Communication: Slack, Zoom, Email, Discord

Previous clients from: USA, UK, Canada, Germany, Australia, and more!`,
		},
		{
			Key:      "education",
			Triggers: []string{"education", "degree", "university", "study", "school", "certificate", "certification"},
			Response: `{{owner}}'s educational background:

🎓 BS in Computer Science
Stanford University (2014-2018)
• GPA: 3.8 | Dean's List
• Focus: Software Engineering & HCI

📜 Certifications:
• AWS Solutions Architect (2021)
• Google UX Design Professional (2022)
• Meta Frontend Developer (2023)

Continuous learner with 100+ online courses completed!`,
		},
		{
			Key:      "about",
			Triggers: []string{"about", "who", "tell me about", "yourself", "bio", "story"},
			Response: `{{owner}} is a passionate creative developer with 5+ years of experience building modern web applications and immersive digital experiences.

🎯 Mission: Creating beautiful, functional digital experiences that make a difference.

❤️ Passions:
• Clean, maintainable code
• User-centered design
• Open source contribution
• Mentoring developers

🎮 Outside of coding:
• Photography enthusiast
• Coffee connoisseur
• Hiking & travel

Check out the About section for the full story!`,
		},
		{
			Key:      "thanks",
			Triggers: []string{"thank", "thanks", "appreciate", "helpful", "great"},
			Response: `You're very welcome! 😊 I'm glad I could help!

Is there anything else you'd like to know about {{owner}}'s work or services?

Feel free to:
• Explore the portfolio sections
• Fill out the contact form
• Reach out directly via email

Have a great day! 🌟`,
		},
		{
			Key:      "goodbye",
			Triggers: []string{"bye", "goodbye", "see you", "later", "exit", "close"},
			Response: `Goodbye! 👋 Thanks for visiting {{owner}}'s portfolio!

Feel free to come back anytime if you have more questions. Good luck with your project!

🌟 Don't forget to:
• Check out the projects
• Connect on social media
• Get in touch if you need help`,
		},
	}
}

// genericFallback is returned when no category matches.
func genericFallback(owner string) string {
	return `Thanks for your message! I'd be happy to help you learn more about ` + owner + `'s work.

You can ask me about:
• 💼 Experience & Background
• 🛠️ Skills & Technologies
• 📁 Projects & Portfolio
• 🎯 Services Offered
• 📞 How to Get in Touch
• 💰 Pricing & Availability

What would you like to know?`
}
