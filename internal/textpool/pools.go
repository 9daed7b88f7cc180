package textpool

import "github.com/verte-zerg/typetest/internal/model"

var builtinPools = map[model.Level][]string{
	model.LevelL1: {
		"Practicar un poco cada día mejora la mecanografía.",
		"Escribe con calma y mantén el ritmo sin mirar el teclado.",
		"Respira, relaja los hombros y deja que los dedos fluyan.",
		"La precisión importa más que la velocidad al principio.",
		"Un buen hábito es corregir errores y seguir adelante.",
		"Repite frases cortas hasta ganar confianza y control.",
		"Teclas suaves, manos quietas y mirada en la pantalla.",
		"Constancia y paciencia: el progreso llega con el tiempo.",
	},
	model.LevelL2: {
		"En DAW aprendemos a construir aplicaciones web con HTML, CSS y JavaScript, cuidando la accesibilidad y el rendimiento.",
		"Una buena API REST define rutas claras, valida los datos de entrada y devuelve códigos de estado coherentes.",
		"Programar es resolver problemas: dividir en partes pequeñas, probar a menudo y mejorar el código con calma.",
		"Si optimizas una web, empieza por medir: reduce imágenes, evita renderizados innecesarios y usa caché cuando tenga sentido.",
		"En un equipo de desarrollo, comunicar bien los cambios y revisar pull requests evita errores y ahorra tiempo.",
		"Cuando depuras un bug, reproduce el problema, aísla la causa y verifica el arreglo con un caso sencillo.",
		"Una interfaz minimalista prioriza la lectura: buen contraste, tipografía clara y espacios bien definidos.",
		"La base de datos debe estar normalizada, pero también diseñada pensando en consultas reales y en índices adecuados.",
	},
	model.LevelL3: {
		"¿Te has fijado en las tildes? á, é, í, ó, ú; y también en la ñ y la ü. Practicarlas en frases largas ayuda a escribir español con naturalidad, sin sacrificar velocidad ni precisión aunque el texto sea extenso.",
		"A medida que avanzas, concéntrate en la precisión: una tecla mal pulsada rompe el ritmo, pero una corrección rápida te devuelve el control; respira, mantén la postura y continúa hasta completar el párrafo.",
		"Mientras llueve en la ciudad, el café humea y el teclado suena suave: escribe con calma, revisa tus errores más comunes y aprende a mantener un ritmo constante, incluso cuando el texto se alarga.",
		"La aplicación se diseñó pensando en la usabilidad: contraste alto, lectura cómoda y respuestas rápidas; si te equivocas, no te detengas, vuelve al punto correcto y sigue escribiendo con paciencia y atención.",
		"En el informe final añadiremos estadísticas y conclusiones: tiempo empleado, velocidad, precisión y errores; con esos datos podrás comparar partidas, detectar patrones y ajustar tu estrategia de aprendizaje.",
		"Cuando el texto es largo, el reto real no es la dificultad, sino la constancia: mantener el ritmo durante minutos exige concentración, mirada al frente y dedos sueltos, sin tensión en muñecas ni hombros.",
		"En clase repasamos conceptos de desarrollo: planificación, pruebas y revisión; del mismo modo, la mecanografía mejora con práctica diaria, pequeñas metas y una actitud tranquila ante cada corrección.",
		"Si hoy estás cansado, baja el ritmo y prioriza la precisión: escribe despacio, con claridad, y verás que la velocidad aparece después. La práctica constante, día a día, es la clave del progreso.",
	},
}
