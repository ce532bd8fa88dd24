package cpu

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("StepLogHook", func() {
	It("should log steps and resets", func() {
		var buf bytes.Buffer
		e := MakeBuilder().WithDefaultProgram().Build("CPU")
		e.AcceptHook(NewStepLogHook(log.New(&buf, "", 0)))

		_, err := e.Run(3)
		Expect(err).NotTo(HaveOccurred())
		e.Reset()

		Expect(buf.String()).To(Equal(
			"CPU: [0] LOAD: Memória[5] -> R1 (10 ciclos) MISS\n" +
				"CPU: [1] LOAD: Memória[9] -> R2 (10 ciclos) MISS\n" +
				"CPU: [2] ADD: R1+R2 -> R3 (2 ciclos)\n" +
				"CPU: reset\n"))
	})
})
