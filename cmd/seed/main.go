// seed genera el script SQL que puebla las tablas paramétricas del libro:
// unidades de medida y su grafo de conversiones (cada factor con su inversa).
//
// Uso: go run ./cmd/seed
// Escribe: internal/infrastructure/postgres/migrations/002_seed_unidades.sql
// Los UUID son deterministas (SHA-1 del nombre) para que regenerar el script
// no cambie los IDs ya sembrados.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type unidad struct {
	nombre      string
	abreviatura string
}

type conversion struct {
	origen  string // abreviatura
	destino string
	factor  string // literal NUMERIC, sin pasar por float
}

var unidades = []unidad{
	{"kilogramo", "kg"},
	{"gramo", "g"},
	{"litro", "l"},
	{"mililitro", "ml"},
	{"unidad", "ud"},
	{"docena", "doc"},
	{"caja", "caja"},
}

// Solo los sentidos "hacia abajo"; el inverso 1/factor se genera aquí mismo,
// igual que hace el caso de uso al crear conversiones en runtime.
var conversiones = []conversion{
	{"kg", "g", "1000"},
	{"l", "ml", "1000"},
	{"doc", "ud", "12"},
	{"caja", "ud", "24"},
}

func idUnidad(abreviatura string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("unidad:"+abreviatura)).String()
}

func main() {
	var b strings.Builder
	b.WriteString("-- Generado por cmd/seed. No editar a mano: regenerar.\n\n")

	for _, u := range unidades {
		fmt.Fprintf(&b,
			"INSERT INTO unidades_medida (id, nombre, abreviatura) VALUES ('%s', '%s', '%s') ON CONFLICT (id) DO NOTHING;\n",
			idUnidad(u.abreviatura), u.nombre, u.abreviatura,
		)
	}
	b.WriteString("\n")

	for _, c := range conversiones {
		origen, destino := idUnidad(c.origen), idUnidad(c.destino)
		fmt.Fprintf(&b,
			"INSERT INTO conversiones_unidad (unidad_origen_id, unidad_destino_id, factor) VALUES ('%s', '%s', %s) ON CONFLICT DO NOTHING;\n",
			origen, destino, c.factor,
		)
		// Par inverso en la misma sentencia lógica: 1/factor vía SQL para no
		// perder precisión en Go.
		fmt.Fprintf(&b,
			"INSERT INTO conversiones_unidad (unidad_origen_id, unidad_destino_id, factor) VALUES ('%s', '%s', 1::numeric / %s) ON CONFLICT DO NOTHING;\n",
			destino, origen, c.factor,
		)
	}

	salida := filepath.Join("internal", "infrastructure", "postgres", "migrations", "002_seed_unidades.sql")
	if err := os.WriteFile(salida, []byte(b.String()), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "escribir %s: %v\n", salida, err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s (%d unidades, %d pares de conversión)\n", salida, len(unidades), len(conversiones))
}
