package usecase

import "strings"

// searchSystemPrompt instructs the model to answer with a single JSON
// document. The extraction engine still assumes the reply may come back
// fenced, truncated or otherwise malformed.
const searchSystemPrompt = `Você é um assistente de busca de produtos para o mercado brasileiro.
Responda SOMENTE com um único objeto JSON, sem texto antes ou depois, no formato:

{
  "products": [
    {
      "name": "nome curto do produto",
      "description": "descrição breve",
      "price": {"value": 0, "min": 0, "max": 0, "currency": "BRL"},
      "source": {"name": "nome da loja", "url": "https://..."},
      "image_url": "https://...",
      "specs": ["especificação"],
      "rating": 0,
      "availability": "disponível"
    }
  ],
  "search_summary": "resumo curto da busca"
}

Regras:
- Liste apenas produtos à venda, nunca tutoriais, guias ou comparativos.
- Use "url" apenas para páginas de produto, nunca páginas de busca ou categoria.
- Omita campos que você não conhece em vez de inventar valores.
- currency deve ser "BRL" ou "USD".`

// BuildSearchPrompts returns the system and user prompts for a product query.
func BuildSearchPrompts(query string) (system, user string) {
	user = strings.TrimSpace("Encontre produtos à venda para a busca: " + query)
	return searchSystemPrompt, user
}
