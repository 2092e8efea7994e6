// Package entropy implements lossless entropy coding over a static
// probability distribution: optimal prefix (Huffman) codes with an optional
// block-extension variant, and a fixed-precision arithmetic coder.
//
// References:
//
//     <https://en.wikipedia.org/wiki/Huffman_coding>
//
//     <https://en.wikipedia.org/wiki/Arithmetic_coding>
//
package entropy
