package route

import "github.com/hitoshi/careernest/internal/model"

// FeatureDescriptors は機能紹介ページの宣言的な定義一覧を返す。
// 一覧の順序はルートテーブルへの挿入順に反映される。
func FeatureDescriptors() []model.FeatureDescriptor {
	return []model.FeatureDescriptor{
		{
			Route:   "/resume-generator",
			Title:   "Resume & Cover Letter Generator",
			Summary: "Instantly create AI-powered resumes and cover letters tailored to your target role and optimized for success.",
			Hero:    "Generate job-winning resumes and cover letters in seconds, styled with a HackerRank-inspired format.",
			FeatureList: []string{
				"AI-built, tailored documents for job-specific branding",
				"HackerRank-style resume format",
				"Sections: Contact, Skills, Education, Certifications",
				"Auto-formatting for clean layout",
				"Export as PDF & DOCX instantly",
			},
			CTALabel: "Start Building Resume",
			DemoPath: "/resume-generator/demo",
		},
		{
			Route:   "/ats-engine",
			Title:   "ATS Optimization Engine",
			Summary: "Score, optimize, and refine your resume to beat Applicant Tracking Systems and reach real recruiters.",
			Hero:    "Optimize your resume for ATS with instant scoring, keyword tips, and smart format checks.",
			FeatureList: []string{
				"NLP-Based Parsing: Analyze resume structure",
				"TF-IDF & Semantic Matching: Boosts relevance for job descriptions",
				"ATS Compatibility Scoring",
				"Keyword Optimization Suggestions",
				"Format recommendations for parsing bots",
				"Real-Time Feedback and Competitor Analysis",
			},
			CTALabel: "Optimize Resume",
			DemoPath: "/ats-engine/demo",
		},
		{
			Route:   "/interview-simulator",
			Title:   "AI Interview Simulator",
			Summary: "Practice interviews with AI—get feedback on answers, confidence, and delivery. Improve faster than ever.",
			Hero:    "Boost your skills with AI-generated questions, live feedback, and real mock session analytics.",
			FeatureList: []string{
				"Role-Specific Question Generation (GPT-4o)",
				"Speech-to-Text Evaluation (Whisper)",
				"Sentiment & Confidence Scoring",
				"Facial/Body Language Feedback (optional)",
				"Performance Analytics & Progress Tracking",
				"Mock Interview Recording",
			},
			CTALabel: "Start Mock Interview",
			DemoPath: "/interview-simulator/demo",
		},
		{
			Route:   "/career-analyzer",
			Title:   "Skill Gap & Career Path Analyzer",
			Summary: "Spot skill gaps, get upskilling paths, and explore smart role suggestions—all powered by data.",
			Hero:    "Analyze your skills, discover market gaps, and unlock a personalized career plan—plus salary and role insights.",
			FeatureList: []string{
				"Skill Gap Detection with NLP and ML",
				"Personalized career path suggestions",
				"Learning path & certification recommendations",
				"Salary & Growth Forecasting",
				"Industry switch feasibility analysis",
			},
			CTALabel: "Analyze My Career",
			DemoPath: "/career-analyzer/demo",
		},
		{
			Route:   "/auto-apply",
			Title:   "Smart Job Auto-Apply",
			Summary: "Find, filter, and auto-apply to top jobs—track everything and stay in control with ethical AI.",
			Hero:    "Let AI find and apply to jobs for you, with full transparency and user-controlled filters.",
			FeatureList: []string{
				"Ethical Web Scraping & API Job Listings",
				"Automated Form Filling from your data",
				"User preference filters (role, location, salary)",
				"Bulk/One-Click Application with approval",
				"Custom search monitoring & Application dashboard",
			},
			CTALabel: "Start Auto-Applying",
			DemoPath: "/auto-apply/demo",
		},
		{
			Route:   "/dashboard",
			Title:   "Centralized Progress Dashboard",
			Summary: "Track applications, interviews, and career growth. Visualize your entire journey in one place.",
			Hero:    "See your job search, interviews, and learning milestones in a real-time interactive dashboard.",
			FeatureList: []string{
				"Application & Interview tracker (status visualization)",
				"Resume performance metrics",
				"Interview practice analytics & confidence scores",
				"Skill development insights & timeline",
				"Career milestones & achievements",
			},
			CTALabel: "Go to My Dashboard",
			DemoPath: "/dashboard/demo",
		},
	}
}
