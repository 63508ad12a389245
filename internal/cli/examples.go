package cli

// Files written by setup. Keys mirror what engine.LoadConfig reads;
// setup_test.go keeps them honest.

const exampleConfig = `{
  "job_search": {
    "keywords": ["python developer", "backend developer"],
    "locations": ["Remote"],
    "excluded_keywords": ["unpaid", "internship"],
    "remote_only": true,
    "min_salary": 0,
    "max_results_per_board": 25,
    "country": "us"
  },
  "job_boards": {
    "adzuna": true,
    "reed": true,
    "linkedin": false
  },
  "openai": {
    "model": "gpt-4o",
    "temperature": 0.7,
    "skills_temperature": 0.3,
    "max_tokens": 1024
  },
  "resume": {
    "data_path": "assets/resume_data.json",
    "template_path": "",
    "output_dir": "generated_resumes",
    "processed_dir": "processed_jobs",
    "category_order": [
      "Programming Languages",
      "Frameworks & Libraries",
      "Databases",
      "Tools & Technologies",
      "Git",
      "Scrum"
    ],
    "label_only_categories": ["Git", "Scrum"]
  },
  "google": {
    "spreadsheet_name": "Job Application Tracker",
    "drive_folder_name": "Automated Job Application Resumes"
  },
  "rate_limits": {
    "search_per_minute": 20,
    "completion_per_minute": 15,
    "upload_per_minute": 10,
    "fetch_timeout": "20s"
  }
}
`

const exampleEnv = `# Copy to .env (or export directly) and fill in what you use.

# OpenAI. Required unless every run uses --skip-llm.
OPENAI_API_KEY=
# Optional OpenAI-compatible endpoint.
#OPENAI_BASE_URL=

# Adzuna credentials, https://developer.adzuna.com/
ADZUNA_APP_ID=
ADZUNA_APP_KEY=

# Reed API key, https://www.reed.co.uk/developers
REED_API_KEY=

# LinkedIn login, only read when job_boards.linkedin is true.
#LINKEDIN_EMAIL=
#LINKEDIN_PASSWORD=

# Google service account JSON with Drive and Sheets scopes.
GOOGLE_APPLICATION_CREDENTIALS=credentials.json
`

const exampleResume = `{
  "personal_info": {
    "name": "Your Name",
    "title": "Backend Developer",
    "email": "you@example.com",
    "phone": "+1 555 000 0000",
    "location": "Remote",
    "linkedin": "https://www.linkedin.com/in/your-name",
    "github": "https://github.com/your-name"
  },
  "summary": "Backend developer with five years of experience building APIs and data pipelines. Comfortable owning a service from schema to deploy.",
  "skills": {
    "Programming Languages": ["Python", "Go", "SQL"],
    "Frameworks & Libraries": ["FastAPI", "Django", "SQLAlchemy"],
    "Databases": ["PostgreSQL", "Redis"],
    "Tools & Technologies": ["Docker", "AWS", "Linux"],
    "Git": [],
    "Scrum": []
  },
  "experience": [
    {
      "title": "Backend Developer",
      "company": "Acme Corp",
      "location": "Remote",
      "dates": "2021 - Present",
      "description": [
        "Built and ran the payments API serving 2M requests a day",
        "Cut p99 latency from 800ms to 120ms by reworking the query layer",
        "Mentored two junior developers through their first production services"
      ],
      "technologies": ["Python", "FastAPI", "PostgreSQL"]
    },
    {
      "title": "Junior Developer",
      "company": "Initech",
      "dates": "2019 - 2021",
      "description": [
        "Maintained internal reporting tools used by 40 analysts",
        "Automated the nightly data import, removing a manual hour per day"
      ]
    }
  ],
  "education": [
    {
      "degree": "BSc Computer Science",
      "institution": "State University",
      "dates": "2015 - 2019"
    }
  ]
}
`
