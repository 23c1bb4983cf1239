// Package clients holds the client and task records and the store that
// mutates them.
//
// The persisted form is a JSON array of clients using the key names of
// earlier installations:
//
//	[
//	  {
//	    "data-inicio": "2024-01-01",
//	    "codigo": "C1",
//	    "nome-cliente": "Acme",
//	    "nome-contato": "Jane",
//	    "email": "jane@acme.test",
//	    "telefone-01": "555-0100",
//	    "plano-acao": "Quarterly review",
//	    "tarefas": [
//	      {
//	        "criacao": "2024-01-01",
//	        "limite": "2024-02-01",
//	        "titulo": "Call",
//	        "descricao": "",
//	        "status": "Pendente"
//	      }
//	    ]
//	  }
//	]
//
// # Dates
//
// Dates are kept as ISO "YYYY-MM-DD" strings and compared as strings. The
// fixed-width, zero-padded layout makes string order equal to calendar
// order, so no conversion happens inside the store.
//
// # Task identity
//
// A task has no id. Its position in the owning client's list is its only
// identity, and editing a task moves it to the end of that list.
package clients
