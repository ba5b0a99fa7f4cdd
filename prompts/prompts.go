// Package prompts holds the templates sent to the generation service.
package prompts

// ChunkUITemplate renders the per-chunk generation prompt. It receives
// DomainContext, ChunkID and ChunkData (the formatted endpoint listing).
const ChunkUITemplate = `You are a world-class UI/UX designer and full-stack developer creating a modern, intuitive web application.

DOMAIN CONTEXT: {{.DomainContext}}

CHUNK ID: {{.ChunkID}}

TASK: Create a beautiful, functional UI section for this API chunk. Focus on:
- Modern design with smooth animations and consistent design patterns
- Intuitive user workflows based on the domain context
- Responsive design that works on all devices
- Interactive elements that make API functionality accessible

API ENDPOINTS TO INTEGRATE:
{{.ChunkData}}

REQUIREMENTS:
1. Generate complete HTML with embedded CSS and JavaScript
2. Create intuitive forms and interfaces for each endpoint
3. Add proper error handling and loading states
4. Use modern CSS features (flexbox, grid, animations)
5. Include interactive elements like buttons, forms, and navigation
6. Make it visually appealing with proper spacing and typography
7. Ensure accessibility with proper ARIA labels
8. Add responsive design for mobile and desktop

OUTPUT: Complete HTML code for this UI section (no markdown, just HTML):`
