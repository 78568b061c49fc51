package prompts

const spreadSchema = `{
  "type": "object",
  "required": ["cards", "overallAdvice"],
  "properties": {
    "cards": {
      "type": "array",
      "minItems": 3,
      "maxItems": 3,
      "items": {
        "type": "object",
        "required": ["title", "keyword", "quote", "source", "interpretation"],
        "properties": {
          "title":          {"type": "string", "minLength": 1},
          "keyword":        {"type": "string", "minLength": 1},
          "quote":          {"type": "string", "minLength": 1},
          "source":         {"type": "string", "minLength": 1},
          "interpretation": {"type": "string", "minLength": 1}
        }
      }
    },
    "overallAdvice": {"type": "string", "minLength": 1}
  }
}`

const postcardSchema = `{
  "type": "object",
  "required": ["quote", "source", "interpretation"],
  "properties": {
    "quote":          {"type": "string", "minLength": 1},
    "source":         {"type": "string", "minLength": 1},
    "interpretation": {"type": "string", "minLength": 1},
    "keyword":        {"type": "string"},
    "advice":         {"type": "string"},
    "encouragement":  {"type": "string"}
  }
}`

const pocketSchema = `{
  "type": "object",
  "required": ["keyword", "quote", "source", "interpretation", "advice", "encouragement"],
  "properties": {
    "keyword":        {"type": "string", "minLength": 1},
    "quote":          {"type": "string", "minLength": 1},
    "source":         {"type": "string", "minLength": 1},
    "interpretation": {"type": "string", "minLength": 1},
    "advice":         {"type": "string", "minLength": 1},
    "encouragement":  {"type": "string", "minLength": 1}
  }
}`
